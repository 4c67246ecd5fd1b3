// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package structured adapts the structured-document extraction service (the
// primary backend) over its JSON REST API.
package structured

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	xtract "github.com/finsight/report-xtract"
)

// Config locates the structured extraction service.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds one HTTP round-trip. Defaults to 45s.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client calls the structured-document extraction endpoint and validates
// its responses against the service contract before trusting them.
type Client struct {
	cfg        Config
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// NewClient builds the primary-structured backend adapter.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("structured: BaseURL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileResponseSchema()
	if err != nil {
		return nil, fmt.Errorf("structured: %w", err)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		schema:     schema,
		logger:     logger,
	}, nil
}

func (c *Client) Method() xtract.Method { return xtract.MethodStructured }

// extractResponse is the service's documented reply shape.
type extractResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Blocks     []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"blocks"`
}

// Extract posts the page to the service. Transport errors and 5xx replies
// are transient; 4xx replies and contract violations are permanent.
func (c *Client) Extract(ctx context.Context, chunk *xtract.Chunk) (xtract.RawOutput, error) {
	body := map[string]any{
		"content":   base64.StdEncoding.EncodeToString(chunk.Data),
		"mime_type": "application/octet-stream",
	}
	raw, err := c.post(ctx, "/v1/documents:extract", body)
	if err != nil {
		return xtract.RawOutput{}, err
	}

	if err := c.validate(raw); err != nil {
		c.logger.Error("structured response violates contract", "page", chunk.PageNumber, "err", err)
		return xtract.RawOutput{}, xtract.PermanentError(xtract.MethodStructured,
			fmt.Errorf("response schema: %w", err))
	}

	var resp extractResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return xtract.RawOutput{}, xtract.PermanentError(xtract.MethodStructured,
			fmt.Errorf("decode response: %w", err))
	}

	// No text is not an error here: a blank page scores near zero and the
	// policy layer decides what to do with it.
	return xtract.RawOutput{
		Text:       strings.TrimSpace(resp.Text),
		Signal:     resp.Confidence,
		BlockCount: len(resp.Blocks),
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, xtract.PermanentError(xtract.MethodStructured, fmt.Errorf("marshal request: %w", err))
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, xtract.PermanentError(xtract.MethodStructured, err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xtract.TransientError(xtract.MethodStructured,
			fmt.Errorf("%w: %w", xtract.ErrBackendUnavailable, err))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("response body close failed", "err", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xtract.TransientError(xtract.MethodStructured, fmt.Errorf("read response: %w", err))
	}
	switch {
	case resp.StatusCode >= 500:
		return nil, xtract.TransientError(xtract.MethodStructured,
			fmt.Errorf("status %d: %s: %w", resp.StatusCode, truncate(raw, 256), xtract.ErrBackendUnavailable))
	case resp.StatusCode >= 300:
		return nil, xtract.PermanentError(xtract.MethodStructured,
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 256)))
	}
	return raw, nil
}

func (c *Client) validate(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return c.schema.Validate(v)
}

// compileResponseSchema builds the validator for the service contract: text
// and a [0,1] confidence are required, blocks are typed when present.
func compileResponseSchema() (*jsonschema.Schema, error) {
	schemaMap := map[string]any{
		"type":     "object",
		"required": []string{"text", "confidence"},
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"blocks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"text"},
					"properties": map[string]any{
						"type": map[string]any{"type": "string"},
						"text": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extract-response.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("extract-response.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
