// Package ingest orchestrates the import pipeline: per-file processing,
// upload orchestration, and the service facade that serializes uploads
// against the shared question collection.
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/quizforge/server/internal/question"
)

// Strictness governs whether a detected problem halts processing of its
// file (strict) or is recorded and bypassed (lenient).
type Strictness string

const (
	StrictnessStrict  Strictness = "strict"
	StrictnessLenient Strictness = "lenient"
)

// ParseStrictness validates a strictness value; the empty string
// defaults to lenient.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(s) {
	case "":
		return StrictnessLenient, nil
	case StrictnessStrict, StrictnessLenient:
		return Strictness(s), nil
	default:
		return "", fmt.Errorf("unknown strictness %q", s)
	}
}

// Options is the request-scoped import configuration. It is a pure value
// object: read once by the orchestrator, never mutated.
type Options struct {
	MergeStrategy question.Strategy
	Strictness    Strictness
	HeadersMap    map[string]string
	Preset        string
	Owner         string
}

// optionsPayload is the wire form of Options.
type optionsPayload struct {
	MergeStrategy string            `json:"mergeStrategy"`
	Strictness    string            `json:"strictness"`
	HeadersMap    map[string]string `json:"headersMap"`
	Preset        string            `json:"preset"`
	Owner         string            `json:"owner"`
}

// ParseOptions decodes the JSON options payload, applying defaults
// (mergeStrategy "skip", strictness "lenient") and rejecting unknown
// enum values. An optional top-level headersMap payload, when present,
// merges over options.headersMap entry by entry.
func ParseOptions(optionsJSON, headersMapJSON []byte) (Options, error) {
	var payload optionsPayload
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &payload); err != nil {
			return Options{}, fmt.Errorf("decode options: %w", err)
		}
	}

	strategy, err := question.ParseStrategy(payload.MergeStrategy)
	if err != nil {
		return Options{}, err
	}
	strictness, err := ParseStrictness(payload.Strictness)
	if err != nil {
		return Options{}, err
	}

	headersMap := payload.HeadersMap
	if len(headersMapJSON) > 0 {
		override := make(map[string]string)
		if err := json.Unmarshal(headersMapJSON, &override); err != nil {
			return Options{}, fmt.Errorf("decode headersMap: %w", err)
		}
		if headersMap == nil {
			headersMap = override
		} else {
			for k, v := range override {
				headersMap[k] = v
			}
		}
	}

	return Options{
		MergeStrategy: strategy,
		Strictness:    strictness,
		HeadersMap:    headersMap,
		Preset:        payload.Preset,
		Owner:         payload.Owner,
	}, nil
}
