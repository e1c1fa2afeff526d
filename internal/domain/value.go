package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the expected type of an answer
type Kind string

const (
	KindInt     Kind = "int"
	KindDecimal Kind = "decimal"
	KindText    Kind = "text"
)

// NoneText is the sentinel users send for an empty text answer
const NoneText = "-"

var (
	ErrNotInteger = errors.New("not a non-negative integer")
	ErrNotDecimal = errors.New("not a decimal number")
)

// Value is a typed answer. Exactly one of Int, Decimal, Text is meaningful,
// selected by Kind.
type Value struct {
	Kind    Kind    `json:"kind"`
	Int     int64   `json:"int,omitempty"`
	Decimal float64 `json:"decimal,omitempty"`
	Text    string  `json:"text,omitempty"`
}

func IntValue(n int64) Value       { return Value{Kind: KindInt, Int: n} }
func DecimalValue(f float64) Value { return Value{Kind: KindDecimal, Decimal: f} }
func TextValue(s string) Value     { return Value{Kind: KindText, Text: s} }

// IsNone reports whether a text answer was explicitly left empty
func (v Value) IsNone() bool {
	return v.Kind == KindText && v.Text == NoneText
}

// CellValue returns the value in the form written to a spreadsheet cell
func (v Value) CellValue() interface{} {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindDecimal:
		return v.Decimal
	default:
		return v.Text
	}
}

// ParseInt accepts only strings made of ASCII decimal digits
func ParseInt(input string) (Value, error) {
	if input == "" {
		return Value{}, ErrNotInteger
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return Value{}, ErrNotInteger
		}
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return Value{}, ErrNotInteger
	}
	return IntValue(n), nil
}

// ParseDecimal accepts a floating point number, with either comma or period
// as the decimal separator
func ParseDecimal(input string) (Value, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, ErrNotDecimal
	}
	return DecimalValue(f), nil
}

// ParseAnswer validates input against the expected kind
func ParseAnswer(kind Kind, input string) (Value, error) {
	switch kind {
	case KindInt:
		return ParseInt(input)
	case KindDecimal:
		return ParseDecimal(input)
	default:
		return TextValue(input), nil
	}
}

// Answers maps a field to its collected value
type Answers map[Field]Value

// Clone returns an independent copy
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
