// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package vision

import (
	"context"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
)

func respWithText(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestCollectText(t *testing.T) {
	assert.Empty(t, collectText(nil))
	assert.Empty(t, collectText(&genai.GenerateContentResponse{}))

	resp := respWithText(genai.Text("ACCOUNT SUMMARY\n"), genai.Text("Balance: $42.00"))
	assert.Equal(t, "ACCOUNT SUMMARY\nBalance: $42.00", collectText(resp))
}

func TestCollectText_StripsCodeFences(t *testing.T) {
	resp := respWithText(genai.Text("```text\nBalance: $42.00\n```"))
	assert.Equal(t, "Balance: $42.00", collectText(resp))

	resp = respWithText(genai.Text("```\nplain fenced\n```"))
	assert.Equal(t, "plain fenced", collectText(resp))
}

func TestRefused(t *testing.T) {
	assert.True(t, refused("I am unable to process this document."))
	assert.True(t, refused("As a large language model, I cannot..."))
	assert.False(t, refused("Account balance: $120.00"))
	assert.False(t, refused(""))
}

func TestCountBlocks(t *testing.T) {
	assert.Zero(t, countBlocks(""))
	assert.Equal(t, 1, countBlocks("one paragraph"))
	assert.Equal(t, 3, countBlocks("a\n\nb\n\nc"))
	assert.Equal(t, 2, countBlocks("a\n\n   \n\nb"))
}

func TestSniffMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"tiff little endian", []byte("II*\x00rest"), "image/tiff"},
		{"tiff big endian", []byte("MM\x00*rest"), "image/tiff"},
		{"pdf", []byte("%PDF-1.7"), "application/pdf"},
		{"unknown defaults to png", []byte("garbage"), "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffMIME(tt.data))
		})
	}
}

func TestNewExtractor_RequiresProjectAndRegion(t *testing.T) {
	_, err := NewExtractor(context.Background(), Config{})
	assert.Error(t, err)
}
