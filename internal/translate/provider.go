package translate

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// ProviderConfig carries the external translation model settings. The model
// identifier and sampling knobs come from configuration, never from code, so
// provider churn stays out of the pipeline.
type ProviderConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// Enabled reports whether the required credentials are present.
func (c ProviderConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds the chat model used by the pipeline. Low temperature
// and a bounded output size keep latency and variance down.
func NewChatModel(ctx context.Context, c ProviderConfig) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("translation provider requires api key and model id")
	}

	temperature := float32(c.Temperature)
	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: &temperature,
	}
	if c.MaxTokens > 0 {
		maxTokens := c.MaxTokens
		cfg.MaxTokens = &maxTokens
	}

	return ark.NewChatModel(ctx, cfg)
}
