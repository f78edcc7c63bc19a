package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type options struct {
	Platforms []string `json:"platforms"`
	Tasks     []string `json:"tasks"`
}

type modelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

type generateRequest struct {
	Platform string `json:"platform"`
	Task     string `json:"task"`
	ModelID  string `json:"model_id,omitempty"`
}

type generateResponse struct {
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type result struct {
	Platform  string `json:"platform"`
	Task      string `json:"task"`
	Model     string `json:"model"`
	Run       int    `json:"run"`
	ElapsedMs int64  `json:"elapsed_ms"`
	WallMs    int64  `json:"wall_ms"`
	OutChars  int    `json:"out_chars"`
	Error     string `json:"error,omitempty"`

	response string
}

type client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func main() {
	url := flag.String("url", "http://localhost:8090", "API base URL")
	apiKey := flag.String("api-key", "", "API key (optional)")
	runs := flag.Int("runs", 1, "Number of runs per platform/task pair")
	model := flag.String("model", "", "Model ID to use (default: first available)")
	parallel := flag.Int("parallel", 2, "Maximum concurrent requests")
	show := flag.Bool("show", false, "Print each generated prompt and response")
	jsonOut := flag.String("json", "", "Write results to JSON file (e.g. results.json)")
	flag.Parse()

	if err := checkFlags(*runs, *parallel); err != nil {
		fatalf("Invalid flags: %v", err)
	}

	c := &client{
		http:    &http.Client{Timeout: 180 * time.Second},
		baseURL: strings.TrimRight(*url, "/"),
		apiKey:  *apiKey,
	}
	ctx := context.Background()

	modelID := *model
	if modelID == "" {
		var models []modelInfo
		if err := c.getJSON(ctx, "/api/models", &models); err != nil {
			fatalf("Error fetching models: %v", err)
		}
		if len(models) == 0 {
			fatalf("No models available")
		}
		modelID = models[0].ID
	}

	var opts options
	if err := c.getJSON(ctx, "/api/options", &opts); err != nil {
		fatalf("Error fetching options: %v", err)
	}

	fmt.Printf("Benchmarking %s using model: %s (%d pairs x %d runs, parallel %d)\n",
		c.baseURL, modelID, len(opts.Platforms)*len(opts.Tasks), *runs, *parallel)

	var (
		mu      sync.Mutex
		results []result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for _, p := range opts.Platforms {
		for _, t := range opts.Tasks {
			for run := 1; run <= *runs; run++ {
				p, t, run := p, t, run
				g.Go(func() error {
					r := c.generate(gctx, generateRequest{Platform: p, Task: t, ModelID: modelID}, run)
					mu.Lock()
					results = append(results, r)
					mu.Unlock()
					return nil
				})
			}
		}
	}
	g.Wait()

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		if a.Task != b.Task {
			return a.Task < b.Task
		}
		return a.Run < b.Run
	})

	if *show {
		for _, r := range results {
			fmt.Printf("\n--- %s / %s (run %d) ---\n", r.Platform, r.Task, r.Run)
			if r.Error != "" {
				fmt.Printf("ERR: %s\n", r.Error)
				continue
			}
			fmt.Println(r.response)
		}
	}

	fmt.Println()
	printTable(results)
	failures := printSummary(results)

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, results, c.baseURL, modelID); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// checkFlags rejects counts that would schedule nothing or block errgroup forever.
func checkFlags(runs, parallel int) error {
	if runs < 1 {
		return fmt.Errorf("-runs must be at least 1, got %d", runs)
	}
	if parallel < 1 {
		return fmt.Errorf("-parallel must be at least 1, got %d", parallel)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func (c *client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) generate(ctx context.Context, body generateRequest, run int) result {
	r := result{Platform: body.Platform, Task: body.Task, Run: run}

	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", strings.NewReader(string(payload)))
	if err != nil {
		r.Error = err.Error()
		return r
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.do(req)
	r.WallMs = time.Since(start).Milliseconds()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	defer resp.Body.Close()

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		r.Error = err.Error()
		return r
	}

	r.Model = gr.Model
	r.ElapsedMs = gr.ElapsedMs
	r.OutChars = len(gr.Response)
	r.response = gr.Response
	return r
}

func printTable(results []result) {
	fmt.Println("| Platform | Task | Run | Elapsed (ms) | Wall (ms) | Out Chars |")
	fmt.Println("|----------|------|-----|--------------|-----------|-----------|")
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("| %-9s | %-40s | %d | %12s | %9s | %9s |\n", r.Platform, r.Task, r.Run, "FAIL", "-", "-")
			continue
		}
		fmt.Printf("| %-9s | %-40s | %d | %12d | %9d | %9d |\n", r.Platform, r.Task, r.Run, r.ElapsedMs, r.WallMs, r.OutChars)
	}
}

// printSummary prints aggregate latency and returns the number of failed runs.
func printSummary(results []result) int {
	var ok []result
	for _, r := range results {
		if r.Error == "" {
			ok = append(ok, r)
		}
	}
	failed := len(results) - len(ok)

	if len(ok) == 0 {
		fmt.Printf("\nSummary: all %d runs failed\n", len(results))
		return failed
	}

	var total int64
	fastest, slowest := ok[0], ok[0]
	for _, r := range ok {
		total += r.ElapsedMs
		if r.ElapsedMs < fastest.ElapsedMs {
			fastest = r
		}
		if r.ElapsedMs > slowest.ElapsedMs {
			slowest = r
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("- Avg elapsed: %dms\n", total/int64(len(ok)))
	fmt.Printf("- Min elapsed: %dms (%s / %s)\n", fastest.ElapsedMs, fastest.Platform, fastest.Task)
	fmt.Printf("- Max elapsed: %dms (%s / %s)\n", slowest.ElapsedMs, slowest.Platform, slowest.Task)
	fmt.Printf("- Total runs: %d (%d ok, %d failed)\n", len(results), len(ok), failed)
	return failed
}

type jsonReport struct {
	Timestamp string   `json:"timestamp"`
	URL       string   `json:"url"`
	Model     string   `json:"model"`
	Results   []result `json:"results"`
}

func writeJSON(path string, results []result, baseURL, modelID string) error {
	report := jsonReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       baseURL,
		Model:     modelID,
		Results:   results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
