// Package textnorm folds free text into a comparable form: lower case, no
// diacritics, punctuation collapsed to single spaces.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

var nonSpacingMark = runes.In(unicode.Mn)

// Folded is a normalized string that remembers where each byte came from in
// the original input, so matches can be mapped back to the raw text.
type Folded struct {
	Text    string
	source  string
	offsets []int
}

// Fold normalizes s and records byte offsets into s.
func Fold(s string) Folded {
	var b strings.Builder
	offsets := make([]int, 0, len(s))
	pendingSpace := false

	for i, r := range s {
		for _, d := range norm.NFD.String(string(r)) {
			if nonSpacingMark.Contains(d) {
				continue
			}
			if !unicode.IsLetter(d) && !unicode.IsDigit(d) {
				pendingSpace = b.Len() > 0
				continue
			}
			if pendingSpace {
				b.WriteByte(' ')
				offsets = append(offsets, i)
				pendingSpace = false
			}
			d = foldRune(d)
			n := utf8.RuneLen(d)
			b.WriteRune(d)
			for k := 0; k < n; k++ {
				offsets = append(offsets, i)
			}
		}
	}

	return Folded{Text: b.String(), source: s, offsets: offsets}
}

func foldRune(r rune) rune {
	r = unicode.ToLower(r)
	if r == 'ς' {
		return 'σ'
	}
	return r
}

// Normalize returns the folded form of s.
func Normalize(s string) string {
	return Fold(s).Text
}

// SourceOffset maps a byte offset in Text back to a byte offset in the
// original string. An offset at the end of Text maps to the end of the source.
func (f Folded) SourceOffset(i int) int {
	if i >= len(f.offsets) {
		return len(f.source)
	}
	return f.offsets[i]
}

// IndexPhrase finds phrase (already normalized) in the folded text on word
// boundaries and returns the byte range in Text.
func (f Folded) IndexPhrase(phrase string) (start, end int, ok bool) {
	return IndexPhrase(f.Text, phrase)
}

// IndexPhrase finds phrase in text where both ends fall on word boundaries.
func IndexPhrase(text, phrase string) (start, end int, ok bool) {
	if phrase == "" {
		return 0, 0, false
	}
	from := 0
	for from <= len(text)-len(phrase) {
		idx := strings.Index(text[from:], phrase)
		if idx < 0 {
			return 0, 0, false
		}
		start = from + idx
		end = start + len(phrase)
		if (start == 0 || text[start-1] == ' ') && (end == len(text) || text[end] == ' ') {
			return start, end, true
		}
		from = start + 1
	}
	return 0, 0, false
}

// ContainsPhrase reports whether normalized text contains the normalized phrase
// on word boundaries.
func ContainsPhrase(text, phrase string) bool {
	_, _, ok := IndexPhrase(text, phrase)
	return ok
}

// Words returns the normalized words of s that are at least minLen runes long.
func Words(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(Normalize(s)) {
		if utf8.RuneCountInString(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

// Distance is the Levenshtein edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// RelativeDistance scales Distance to 0..1 by the longer input.
func RelativeDistance(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return float64(Distance(a, b)) / float64(longest)
}
