package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(Config{})

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "TrunkPrefixed", raw: "03001234567", want: "+923001234567"},
		{name: "Formatted", raw: " (0300) 123-4567 ", want: "+923001234567"},
		{name: "CountryCode", raw: "923001234567", want: "+923001234567"},
		{name: "Plus", raw: "+92 300 1234567", want: "+923001234567"},
		{name: "IntlPrefix", raw: "0092 300 1234567", want: "+923001234567"},
		{name: "National", raw: "3001234567", want: "+923001234567"},
		{name: "ForeignPlus", raw: "+44 7911 123456", want: "+447911123456"},
		{name: "ForeignNationalLength", raw: "+4412345678", want: "+4412345678"},
		{name: "Other", raw: "12345", want: "+12345"},
		{name: "NoDigits", raw: "call me", want: ""},
		{name: "Empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, n.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizer_Equivalence(t *testing.T) {
	n := NewNormalizer(DefaultConfig)

	forms := []string{"03001234567", "+923001234567", "923001234567", "0300-1234567", "00923001234567", "3001234567"}
	for _, f := range forms {
		assert.Equal(t, "+923001234567", n.Normalize(f), f)
	}
}

func TestNormalizer_CustomPlan(t *testing.T) {
	n := NewNormalizer(Config{CountryCode: "1", TrunkPrefix: "9", NationalLength: 10, IntlPrefix: "011"})

	assert.Equal(t, "+14155550100", n.Normalize("4155550100"))
	assert.Equal(t, "+447911123456", n.Normalize("011 44 7911 123456"))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "0300123", Digits("+(0300) 1-2.3x"))
	assert.Empty(t, Digits("abc"))
}
