package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		valid    bool
		expected int64
	}{
		{input: "42", valid: true, expected: 42},
		{input: "0", valid: true, expected: 0},
		{input: "007", valid: true, expected: 7},
		{input: "4.2", valid: false},
		{input: "-5", valid: false},
		{input: "+5", valid: false},
		{input: "", valid: false},
		{input: "abc", valid: false},
		{input: "1 2", valid: false},
		{input: "٣", valid: false},
		{input: "99999999999999999999", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseInt(tt.input)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrNotInteger)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, IntValue(tt.expected), v)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input    string
		valid    bool
		expected float64
	}{
		{input: "4.5", valid: true, expected: 4.5},
		{input: "4,5", valid: true, expected: 4.5},
		{input: "3", valid: true, expected: 3},
		{input: "75,5", valid: true, expected: 75.5},
		{input: "-1.25", valid: true, expected: -1.25},
		{input: "abc", valid: false},
		{input: "", valid: false},
		{input: "4,5,6", valid: false},
		{input: "NaN", valid: false},
		{input: "Inf", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseDecimal(tt.input)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrNotDecimal)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, KindDecimal, v.Kind)
			assert.InDelta(t, tt.expected, v.Decimal, 1e-9)
		})
	}
}

func TestParseAnswer_Text(t *testing.T) {
	v, err := ParseAnswer(KindText, NoneText)
	assert.NoError(t, err)
	assert.True(t, v.IsNone())
	assert.Equal(t, "-", v.CellValue())

	v, err = ParseAnswer(KindText, "broken lift")
	assert.NoError(t, err)
	assert.False(t, v.IsNone())
	assert.Equal(t, "broken lift", v.CellValue())
}

func TestValue_CellValue(t *testing.T) {
	assert.Equal(t, int64(8), IntValue(8).CellValue())
	assert.Equal(t, 75.5, DecimalValue(75.5).CellValue())
	assert.Equal(t, "x", TextValue("x").CellValue())
}
