// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package vision adapts a Vertex AI generative model as the vision-model
// extraction backend.
package vision

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	xtract "github.com/finsight/report-xtract"
)

const systemPrompt = "You are a document transcription engine. You receive one scanned page of a consumer credit report and return its full text content."

const extractPrompt = `Transcribe every piece of text on this page, preserving reading order.
Output plain text only: no markdown fences, no commentary, no summaries.
If the page contains no readable text, return an empty response.`

// Phrases that mark a model refusal instead of a transcription. A refusal is
// a permanent extraction failure: retrying the same page yields the same
// answer.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// Config locates the Vertex AI model.
type Config struct {
	ProjectID string
	Region    string
	// Model defaults to gemini-1.5-pro.
	Model string
}

// Extractor sends page images to a vision-capable generative model.
type Extractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewExtractor dials Vertex AI and configures the transcription model.
func NewExtractor(ctx context.Context, cfg Config) (*Extractor, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vision: ProjectID and Region are required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("vision: dial vertex ai: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}
	return &Extractor{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (e *Extractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *Extractor) Method() xtract.Method { return xtract.MethodVision }

// Extract asks the model to transcribe the page. Transport and quota errors
// are transient; a refusal or empty candidate set is permanent.
func (e *Extractor) Extract(ctx context.Context, chunk *xtract.Chunk) (xtract.RawOutput, error) {
	page := genai.Blob{
		MIMEType: sniffMIME(chunk.Data),
		Data:     chunk.Data,
	}
	resp, err := e.model.GenerateContent(ctx, page, genai.Text(extractPrompt))
	if err != nil {
		return xtract.RawOutput{}, xtract.TransientError(xtract.MethodVision,
			fmt.Errorf("generate content: %w: %w", xtract.ErrBackendUnavailable, err))
	}

	text := collectText(resp)
	if refused(text) {
		return xtract.RawOutput{}, xtract.PermanentError(xtract.MethodVision,
			fmt.Errorf("model refused transcription: %w", xtract.ErrNoText))
	}
	// An empty transcription of a blank page is a valid, low-quality output.
	return xtract.RawOutput{Text: text, BlockCount: countBlocks(text)}, nil
}

// collectText concatenates the text parts of the first candidate and strips
// any stray code fences the model wrapped the page in.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(b.String())
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func refused(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// countBlocks treats blank-line separated paragraphs as text blocks.
func countBlocks(text string) int {
	if text == "" {
		return 0
	}
	blocks := 0
	for _, part := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(part) != "" {
			blocks++
		}
	}
	return blocks
}

// Magic numbers for the page formats the pipeline feeds us.
var (
	magicPNG  = []byte{0x89, 'P', 'N', 'G'}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicTIFF = []byte("II*\x00")
	magicTIF2 = []byte("MM\x00*")
	magicPDF  = []byte("%PDF")
)

func sniffMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return "image/png"
	case bytes.HasPrefix(data, magicJPEG):
		return "image/jpeg"
	case bytes.HasPrefix(data, magicTIFF), bytes.HasPrefix(data, magicTIF2):
		return "image/tiff"
	case bytes.HasPrefix(data, magicPDF):
		return "application/pdf"
	default:
		return "image/png"
	}
}
