package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/at-ishikawa/tutor/internal/inference"
	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"

	answerPath = "candidates.0.content.parts.0.text"
)

type Client struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a client for the generateContent endpoint.
// Retries stay disabled: every Solve call is exactly one request.
func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("x-goog-api-key", apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		model:      model,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type GenerateContentRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction Content   `json:"systemInstruction"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

func newRequestBody(params inference.SolveRequest) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: params.Query}},
			},
		},
		SystemInstruction: Content{
			Parts: []Part{{Text: inference.Instruction(params.Subject)}},
		},
	}
}

// Solve implements the inference.Client interface
func (client *Client) Solve(
	ctx context.Context,
	params inference.SolveRequest,
) (inference.SolveResponse, error) {
	if strings.TrimSpace(params.Query) == "" {
		return inference.SolveResponse{}, inference.ErrEmptyQuery
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetPathParam("model", client.model).
		SetBody(newRequestBody(params)).
		Post("/models/{model}:generateContent")
	if err != nil {
		return inference.SolveResponse{}, &inference.TransportError{Err: fmt.Errorf("httpClient.Post > %w", err)}
	}
	if !response.IsSuccess() {
		return inference.SolveResponse{}, &inference.APIError{
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		}
	}

	answer := gjson.Get(response.String(), answerPath)
	if answer.Type != gjson.String || answer.String() == "" {
		slog.Default().Debug("gemini response has no candidate text",
			"model", client.model,
			"subject", params.Subject,
			"response", response.String(),
		)
		return inference.SolveResponse{}, inference.ErrEmptyResponse
	}

	slog.Default().Debug("gemini response content",
		"model", client.model,
		"subject", params.Subject,
		"answerLength", len(answer.String()),
	)
	return inference.SolveResponse{Answer: answer.String()}, nil
}
