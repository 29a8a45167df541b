package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decode errors. Analyzers treat all of them as "absent".
var (
	ErrUnknownCategory  = errors.New("unknown detector category")
	ErrMalformedPayload = errors.New("malformed detector payload")
	ErrMissingField     = errors.New("missing required field")
)

// DetectorResult is the raw finding for one category of one job execution.
// Data is interpreted only by the decoder for Category.
type DetectorResult struct {
	Category Category        `json:"category" yaml:"category"`
	Data     json.RawMessage `json:"data" yaml:"-"`
}

// Finding is the typed payload of a DetectorResult. One variant per category.
type Finding interface {
	Category() Category
}

// DecodeFinding matches the result's category tag and decodes its payload
// into the corresponding typed variant. Null optionals are resolved to zero
// here and never re-checked downstream.
func DecodeFinding(r DetectorResult) (Finding, error) {
	if len(r.Data) == 0 {
		return nil, fmt.Errorf("%s: %w: empty payload", r.Category, ErrMalformedPayload)
	}
	switch r.Category {
	case CategoryMRMemoryWaste:
		return decodeMRMemoryWaste(r.Data)
	case CategoryMemoryWaste:
		return decodeSparkMemoryWaste(r.Data)
	case CategoryCPUWaste:
		return decodeCPUWaste(r.Data)
	}
	return nil, fmt.Errorf("%q: %w", r.Category, ErrUnknownCategory)
}

func unmarshalPayload(c Category, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w: %v", c, ErrMalformedPayload, err)
	}
	return nil
}

func missing(c Category, field string) error {
	return fmt.Errorf("%s: %w: %s", c, ErrMissingField, field)
}

// orZero resolves a nullable number.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
