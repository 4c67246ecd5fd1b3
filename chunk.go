// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"fmt"

	"github.com/google/uuid"
)

// Chunk is one page's unit of work: the raw page bytes plus the metadata the
// orchestrator needs to route and reassemble it. A chunk is owned exclusively
// by its processing task until a Result is produced, and discarded after the
// final merge.
type Chunk struct {
	ID             string
	PageNumber     int // 1-based, fixes the final ordering
	Data           []byte
	Size           int
	AssignedMethod Method
}

// BuildChunks splits an ordered batch of page buffers into one Chunk per
// page. It performs no I/O; the only failure modes are input validation.
func BuildChunks(pages [][]byte, primary Method) ([]Chunk, error) {
	if len(pages) == 0 {
		return nil, &BatchConfigError{Reason: "no pages to process"}
	}
	if !primary.Valid() {
		return nil, &BatchConfigError{Reason: fmt.Sprintf("unknown extraction method %q", string(primary))}
	}
	chunks := make([]Chunk, len(pages))
	for i, page := range pages {
		chunks[i] = Chunk{
			ID:             uuid.NewString(),
			PageNumber:     i + 1,
			Data:           page,
			Size:           len(page),
			AssignedMethod: primary,
		}
	}
	return chunks, nil
}
