package sds

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SignalWord is the GHS label signal word.
type SignalWord string

const (
	SignalWarning SignalWord = "Warning"
	SignalDanger  SignalWord = "Danger"
)

// signalSynonyms maps normalized source text to a SignalWord.  PubChem serves
// English, the Spanish forms come from localized labels.
var signalSynonyms = map[string]SignalWord{
	"warning":     SignalWarning,
	"atencion":    SignalWarning,
	"advertencia": SignalWarning,
	"danger":      SignalDanger,
	"peligro":     SignalDanger,
}

// Valid reports whether s is one of the two GHS signal words.
func (s SignalWord) Valid() bool {
	return s == SignalWarning || s == SignalDanger
}

func (s SignalWord) String() string { return string(s) }

// NormalizeText lowercases, trims and strips combining marks after NFD
// decomposition, so "Atención" becomes "atencion".
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// ParseSignalWord maps free text to a SignalWord.  The second value is false
// when the text was not recognized and the Warning default was used.
func ParseSignalWord(s string) (SignalWord, bool) {
	if w, ok := signalSynonyms[NormalizeText(s)]; ok {
		return w, true
	}
	return SignalWarning, false
}

//Personal.AI order the ending
