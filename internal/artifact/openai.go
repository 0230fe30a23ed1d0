package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type OpenAI struct {
	APIKey string
	Model  string
	client *http.Client
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		APIKey: apiKey,
		Model:  model,
		client: &http.Client{},
	}
}

type openAIImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type openAIImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenAI) Generate(ctx context.Context, promptRef string, inputs []string) (string, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return "", errors.New("OpenAI API key is not configured")
	}
	prompt := buildImagePrompt(promptRef, inputs)

	payload, err := json.Marshal(openAIImageRequest{
		Model:  o.Model,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", fmt.Errorf("failed to build OpenAI request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build OpenAI request")
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(o.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", context.DeadlineExceeded
		}
		return "", fmt.Errorf("failed to reach OpenAI")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("OpenAI request failed (%d)", resp.StatusCode)
	}

	var parsed openAIImageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response")
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("OpenAI error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", errors.New("OpenAI returned no image")
	}
	return parsed.Data[0].URL, nil
}

func buildImagePrompt(promptRef string, inputs []string) string {
	if len(inputs) == 0 {
		return "An abstract scene with nothing recognizable in it."
	}
	return fmt.Sprintf("A single cohesive scene combining: %s. Reference: %s.",
		strings.Join(inputs, "; "), promptRef)
}
