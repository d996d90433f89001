package importer

import (
	"strconv"
	"strings"
)

// Transcription sentinels. MISSING and ILLEGIBLE are matched exactly as the
// transcription conventions write them; NULL appears in any casing in the
// source exports.
func isSentinel(value string) bool {
	if value == "MISSING" || value == "ILLEGIBLE" {
		return true
	}
	return strings.ToUpper(value) == "NULL"
}

// Value is the outcome of normalizing one transcribed cell. At most one of
// Int, Float, Raw is set; all unset means the cell was empty or a sentinel.
type Value struct {
	Int   *int
	Float *float64
	Raw   string
}

// IsNil reports whether the cell normalized to no value at all.
func (v Value) IsNil() bool {
	return v.Int == nil && v.Float == nil && v.Raw == ""
}

// AsInt returns the value as an integer count. Floats with no fractional part
// convert; garbage and true fractions do not.
func (v Value) AsInt() *int {
	if v.Int != nil {
		return v.Int
	}
	if v.Float != nil {
		if f := *v.Float; f == float64(int(f)) {
			n := int(f)
			return &n
		}
	}
	return nil
}

// AsFloat returns the value as a dollar amount or measure.
func (v Value) AsFloat() *float64 {
	if v.Float != nil {
		return v.Float
	}
	if v.Int != nil {
		f := float64(*v.Int)
		return &f
	}
	return nil
}

// NormalizeNumeric coerces a transcribed cell to a number. Blank cells and
// sentinels normalize to nothing. Integer parsing is tried before float so
// counts stay exact. A cell that parses as neither is returned verbatim in
// Raw: garbage is preserved for review, never silently dropped.
func NormalizeNumeric(value string) Value {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || isSentinel(trimmed) {
		return Value{}
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		return Value{Int: &n}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Float: &f}
	}

	return Value{Raw: trimmed}
}

// NormalizeText returns the trimmed cell, or "" for blanks and sentinels.
func NormalizeText(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || isSentinel(trimmed) {
		return ""
	}
	return trimmed
}

// NormalizeBool maps Yes/No answers in any casing. Everything else, sentinels
// included, normalizes to nil: an illegible answer is unknown, not false.
func NormalizeBool(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		b := true
		return &b
	case "no":
		b := false
		return &b
	}
	return nil
}
