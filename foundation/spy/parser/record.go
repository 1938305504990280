// File: record.go
// Title: Parsed Call Record
// Description: The structured result of parsing one command call: named
//              fields plus the leftover tokens no slot claimed, with typed
//              accessors for handlers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation
// - 2025-10-15 v0.2.0: ToInt rejects booleans and out-of-range values

package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// LeftoverKey is the key leftover tokens are exported under by Map
const LeftoverKey = grammar.LeftoverField

// Record is a parsed call
type Record struct {
	Fields   map[string]any
	Leftover []any
}

// NewRecord returns an empty record
func NewRecord() *Record {
	return &Record{Fields: make(map[string]any)}
}

// Get returns the raw value of a field
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Has reports whether a field is present
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Set stores a field value
func (r *Record) Set(name string, value any) {
	r.Fields[name] = value
}

// String returns a field formatted as text, or "" when absent
func (r *Record) String(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return Text(v)
}

// Int returns a field as an int
func (r *Record) Int(name string) (int, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return ToInt(v)
}

// IntOr returns a field as an int or def
func (r *Record) IntOr(name string, def int) int {
	if n, ok := r.Int(name); ok {
		return n
	}
	return def
}

// Float returns a field as a float64
func (r *Record) Float(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// FloatOr returns a field as a float64 or def
func (r *Record) FloatOr(name string, def float64) float64 {
	if f, ok := r.Float(name); ok {
		return f
	}
	return def
}

// Values returns a field as a sequence. Scalars become one-element slices.
func (r *Record) Values(name string) []any {
	v, ok := r.Get(name)
	if !ok {
		return nil
	}
	if seq, ok := v.([]any); ok {
		return seq
	}
	return []any{v}
}

// Ints returns a field as ints, skipping values that are not integral
func (r *Record) Ints(name string) []int {
	values := r.Values(name)
	if values == nil {
		return nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if n, ok := ToInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// Floats returns a field as float64s, skipping non-numeric values
func (r *Record) Floats(name string) []float64 {
	values := r.Values(name)
	if values == nil {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ToFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the field names in sorted order
func (r *Record) Names() []string {
	return mapx.SortedKeys(r.Fields)
}

// Map returns the fields plus non-empty leftover under LeftoverKey
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if len(r.Leftover) > 0 {
		out[LeftoverKey] = r.Leftover
	}
	return out
}

// IsText reports whether tok is a text token
func IsText(tok any) bool {
	_, ok := tok.(string)
	return ok
}

// IsInteger reports whether tok is an integer token
func IsInteger(tok any) bool {
	switch tok.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// IsReal reports whether tok is a floating point token
func IsReal(tok any) bool {
	switch tok.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// Text formats a token as text
func Text(tok any) string {
	switch v := tok.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ToInt converts integral tokens to int. Whole floats and numeric strings
// convert as well. Booleans and values outside the int range do not.
func ToInt(tok any) (int, bool) {
	switch v := tok.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return uintToInt(uint64(v))
	case uint64:
		return uintToInt(v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// ToFloat converts numeric tokens to float64
func ToFloat(tok any) (float64, bool) {
	switch v := tok.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case bool:
		return 0, false
	default:
		if n, ok := ToInt(v); ok {
			return float64(n), true
		}
		return 0, false
	}
}

func uintToInt(u uint64) (int, bool) {
	if u > math.MaxInt {
		return 0, false
	}
	return int(u), true
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// -MinInt is 2^63 on 64-bit, exactly representable as float64
	if f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}
