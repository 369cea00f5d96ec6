package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// RedactionType tags how a redaction was produced. Text redactions come from
// text selections, area redactions are drawn freehand. The tag is provenance
// only and does not change how the overlay is rendered.
type RedactionType string

const (
	RedactionText RedactionType = "text"
	RedactionArea RedactionType = "area"
)

// Valid reports whether t is one of the known redaction types.
func (t RedactionType) Valid() bool {
	return t == RedactionText || t == RedactionArea
}

// Redaction is one logical redaction mark on a single page of a document.
// A text selection spanning several lines carries several boxes; a drawn
// rectangle carries one. Both are the same canonical shape: a single-box
// redaction is simply the one-element case.
//
// A redaction is created atomically with all its boxes, is never mutated
// afterwards, and is deleted as one unit.
type Redaction struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	Type       RedactionType `json:"type"`
	Page       int           `json:"page"`  // 1-indexed page of the owning document
	Boxes      []Box         `json:"boxes"` // non-empty, all on Page, in creation order
	CreatedAt  time.Time     `json:"created_at"`
}

// RawBox carries the loosely typed rectangle fields of a create request.
// Values may arrive as JSON numbers or as strings.
type RawBox struct {
	X      any `json:"x"`
	Y      any `json:"y"`
	Width  any `json:"width"`
	Height any `json:"height"`
}

// Builder validates raw create input and produces canonical redactions.
//
// With Strict unset, a group of boxes keeps the members that validate and
// silently drops the rest, matching the behaviour of the original system.
// Strict makes any invalid member fail the whole group. A single-box request
// always fails on any field error, regardless of mode.
type Builder struct {
	Strict bool
}

// Build converts raw input into a validated Redaction. The page value must
// be present and convertible to a positive integer. No identifier is
// assigned; the store assigns one on commit.
func (b Builder) Build(typ string, page any, raw []RawBox) (*Redaction, error) {
	if !RedactionType(typ).Valid() {
		return nil, &ValidationError{Reason: InvalidType, Field: "type"}
	}

	pageNo, ok := coerceInt(page)
	if !ok || pageNo < 1 {
		return nil, &ValidationError{Reason: MissingPage, Field: "page"}
	}

	if len(raw) == 0 {
		return nil, &ValidationError{Reason: EmptyBoxes, Field: "boxes"}
	}

	boxes := make([]Box, 0, len(raw))
	for _, rb := range raw {
		box, err := rb.toBox()
		if err != nil {
			if b.Strict || len(raw) == 1 {
				return nil, err
			}
			// drop the invalid member, keep the rest of the group
			continue
		}
		boxes = append(boxes, box)
	}
	if len(boxes) == 0 {
		return nil, &ValidationError{Reason: EmptyBoxes, Field: "boxes"}
	}

	return &Redaction{
		Type:  RedactionType(typ),
		Page:  pageNo,
		Boxes: boxes,
	}, nil
}

func (rb RawBox) toBox() (Box, error) {
	fields := []struct {
		name string
		val  any
	}{
		{"x", rb.X},
		{"y", rb.Y},
		{"width", rb.Width},
		{"height", rb.Height},
	}

	var vals [4]float64
	for i, f := range fields {
		v, ok := coerceFloat(f.val)
		if !ok {
			return Box{}, &ValidationError{Reason: InvalidField, Field: f.name}
		}
		vals[i] = v
	}
	if vals[2] < 0 {
		return Box{}, &ValidationError{Reason: InvalidField, Field: "width"}
	}
	if vals[3] < 0 {
		return Box{}, &ValidationError{Reason: InvalidField, Field: "height"}
	}

	return Box{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// coerceFloat accepts the scalar encodings JSON can deliver for a numeric
// field. Only finite values are accepted.
func coerceFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// coerceInt accepts integers and integral floats or strings.
func coerceInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	}
	f, ok := coerceFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
