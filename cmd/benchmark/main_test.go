package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"missing API key"}`))
			return
		}
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Platform == "Broken" {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"Error handling AI response: boom"}`))
			return
		}
		json.NewEncoder(w).Encode(generateResponse{Prompt: "p", Response: "hello", Model: req.ModelID, ElapsedMs: 12})
	}))
	defer srv.Close()

	c := &client{http: &http.Client{Timeout: 5 * time.Second}, baseURL: srv.URL, apiKey: "k"}

	ok := c.generate(context.Background(), generateRequest{Platform: "Gradio", Task: "t", ModelID: "mock"}, 1)
	if ok.Error != "" {
		t.Fatalf("unexpected error: %s", ok.Error)
	}
	if ok.Model != "mock" || ok.ElapsedMs != 12 || ok.OutChars != 5 {
		t.Errorf("result: got %+v", ok)
	}

	bad := c.generate(context.Background(), generateRequest{Platform: "Broken", Task: "t"}, 1)
	if !strings.Contains(bad.Error, "HTTP 502") {
		t.Errorf("error: got %q, want HTTP 502", bad.Error)
	}
}

func TestPrintSummaryCountsFailures(t *testing.T) {
	results := []result{
		{Platform: "Gradio", Task: "a", ElapsedMs: 10},
		{Platform: "Gradio", Task: "b", Error: "boom"},
	}
	if got := printSummary(results); got != 1 {
		t.Errorf("failures: got %d, want 1", got)
	}
	if got := printSummary(results[1:]); got != 1 {
		t.Errorf("all failed: got %d, want 1", got)
	}
}

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		name     string
		runs     int
		parallel int
		wantErr  bool
	}{
		{"defaults", 1, 2, false},
		{"serial", 3, 1, false},
		{"zero parallel", 1, 0, true},
		{"negative parallel", 1, -1, true},
		{"zero runs", 0, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFlags(tt.runs, tt.parallel)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkFlags(%d, %d): got err=%v, wantErr=%v", tt.runs, tt.parallel, err, tt.wantErr)
			}
		})
	}
}
