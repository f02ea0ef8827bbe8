package analysis

import "context"

// Temperatures used per request type.
const (
	ChatTemperature    = 0.7
	EnhanceTemperature = 0.2
	AnalyzeTemperature = 0.7
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, temperature float64) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return f(ctx, prompt, temperature)
}
