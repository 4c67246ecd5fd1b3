// Copyright © 2026, Finsight Analytics Inc. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import "fmt"

// Method identifies an extraction backend strategy. The set is closed:
// dispatch on a Method must be exhaustive, and an unrecognized value is a
// configuration error rather than a silent fallthrough.
type Method string

const (
	// MethodStructured is the structured-document extraction service.
	MethodStructured Method = "primary-structured"
	// MethodOCR is the general OCR engine.
	MethodOCR Method = "general-ocr"
	// MethodVision is the vision-capable generative model.
	MethodVision Method = "vision-model"
	// MethodHybrid races two backends and keeps the higher-confidence output.
	MethodHybrid Method = "hybrid"
)

// Methods returns all known extraction methods.
func Methods() []Method {
	return []Method{MethodStructured, MethodOCR, MethodVision, MethodHybrid}
}

func (m Method) String() string { return string(m) }

// Valid reports whether m is a member of the closed method set.
func (m Method) Valid() bool {
	switch m {
	case MethodStructured, MethodOCR, MethodVision, MethodHybrid:
		return true
	}
	return false
}

// ParseMethod converts a string tag into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown extraction method %q", s)
	}
	return m, nil
}
