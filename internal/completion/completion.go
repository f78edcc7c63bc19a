package completion

import "context"

// SystemPrompt frames every request as a programming-assistant exchange.
const SystemPrompt = "You are a programming assistant focused on providing " +
	"accurate, clear, and concise answers to technical questions. " +
	"Your goal is to help users solve programming problems efficiently, " +
	"explain concepts clearly, and provide examples when appropriate. " +
	"Use a professional yet approachable tone. Use explicit markdown " +
	"format for code for all codes in the output."

// Completer defines the contract for chat-completion backends.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// ModelInfo is exposed via GET /api/models.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Params are the sampling settings sent with every request.
type Params struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultParams matches the hosted NVIDIA deployment.
func DefaultParams() Params {
	return Params{
		Temperature: 0.5,
		TopP:        1,
		MaxTokens:   1024,
	}
}
