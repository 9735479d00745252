// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// HTTPProvider executes prompts against an OpenAI-compatible chat completions
// endpoint, generalizing the pattern the teacher's executor package uses for
// every OpenAI-compatible backend (openai_compat_executor.go): a plain
// net/http.Client, a bearer token, and a translated JSON body — without the
// multi-format translation layer this gateway has no need for, since every
// catalog entry already speaks one wire shape.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Pricing PricingTable
}

// NewHTTPProvider creates an HTTPProvider with a sane request timeout.
func NewHTTPProvider(baseURL, apiKey string, pricing PricingTable) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
		Pricing: pricing,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate posts a single-turn chat completion request and reports the
// token counts the provider itself billed, falling back to a character
// estimate only if the response carries no usage block.
func (p *HTTPProvider) Generate(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return Response{}, fmt.Errorf("llmprovider: encode request: %w", err)
	}

	url := p.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("llmprovider: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("llmprovider: request to %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf("llmprovider: %s returned status %d", model, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Response{}, fmt.Errorf("llmprovider: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Response{}, fmt.Errorf("llmprovider: %s returned no choices", model)
	}

	text := parsed.Choices[0].Message.Content
	inputTokens := parsed.Usage.PromptTokens
	outputTokens := parsed.Usage.CompletionTokens
	if inputTokens == 0 {
		inputTokens = EstimateTokens(prompt)
	}
	if outputTokens == 0 {
		outputTokens = EstimateTokens(text)
	}

	cost := p.Pricing.Cost(model, inputTokens, outputTokens)
	log.WithFields(log.Fields{
		"model":         model,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
		"cost":          cost,
	}).Debug("llmprovider: generation complete")

	return Response{Text: text, InputTokens: inputTokens, OutputTokens: outputTokens, Cost: cost}, nil
}
