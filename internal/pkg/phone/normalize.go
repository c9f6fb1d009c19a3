// Package phone canonicalizes user-typed phone numbers into a single
// international key of the form "+<digits>".
package phone

import "strings"

// Config describes the home numbering plan used to expand national numbers.
type Config struct {
	// CountryCode is prepended to national numbers, e.g. "92".
	CountryCode string
	// TrunkPrefix is the national dialing prefix dropped before expansion, e.g. "0".
	TrunkPrefix string
	// NationalLength is the digit count of a national number without trunk prefix.
	NationalLength int
	// IntlPrefix is the international dialing prefix replaced by "+", e.g. "00".
	IntlPrefix string
}

// DefaultConfig is the numbering plan used when a field is left empty.
var DefaultConfig = Config{
	CountryCode:    "92",
	TrunkPrefix:    "0",
	NationalLength: 10,
	IntlPrefix:     "00",
}

// Normalizer maps raw phone input to its canonical identifier.
//
// Normalize is pure and idempotent: Normalize(Normalize(x)) == Normalize(x).
type Normalizer struct {
	cfg Config
}

// NewNormalizer fills empty fields of cfg from DefaultConfig.
func NewNormalizer(cfg Config) *Normalizer {
	if cfg.CountryCode == "" {
		cfg.CountryCode = DefaultConfig.CountryCode
	}
	if cfg.TrunkPrefix == "" {
		cfg.TrunkPrefix = DefaultConfig.TrunkPrefix
	}
	if cfg.NationalLength <= 0 {
		cfg.NationalLength = DefaultConfig.NationalLength
	}
	if cfg.IntlPrefix == "" {
		cfg.IntlPrefix = DefaultConfig.IntlPrefix
	}
	return &Normalizer{cfg: cfg}
}

// Normalize returns "+<digits>" for raw. Input without any digit yields "".
func (n *Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "+"):
		return "+" + digits
	case strings.HasPrefix(digits, n.cfg.IntlPrefix):
		return "+" + strings.TrimPrefix(digits, n.cfg.IntlPrefix)
	case strings.HasPrefix(digits, n.cfg.CountryCode):
		return "+" + digits
	case strings.HasPrefix(digits, n.cfg.TrunkPrefix):
		return "+" + n.cfg.CountryCode + strings.TrimPrefix(digits, n.cfg.TrunkPrefix)
	case len(digits) == n.cfg.NationalLength:
		return "+" + n.cfg.CountryCode + digits
	default:
		return "+" + digits
	}
}

// Digits strips every non-ASCII-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
