package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Trigger detects a keyword in free text and extracts what follows it.
type Trigger struct {
	keyword string
}

// NewTrigger creates a trigger for the given keyword.
func NewTrigger(keyword string) *Trigger {
	return &Trigger{keyword: keyword}
}

// Keyword returns the configured keyword.
func (t *Trigger) Keyword() string {
	return t.keyword
}

// Parse looks for the first case-insensitive occurrence of the keyword in text.
// It returns false when the keyword is absent. An empty keyword never matches.
func (t *Trigger) Parse(text string) (*ParsedIntent, bool) {
	start, end := indexFold(text, t.keyword)
	if start < 0 {
		return nil, false
	}

	return &ParsedIntent{
		Instructions: strings.TrimSpace(text[end:]),
		Keyword:      t.keyword,
		Start:        start,
		End:          end,
		Raw:          text,
	}, true
}

// Contains reports whether text contains the keyword, ignoring case.
func (t *Trigger) Contains(text string) bool {
	start, _ := indexFold(text, t.keyword)
	return start >= 0
}

// indexFold returns the byte span of the first occurrence of substr in s,
// comparing rune by rune in lower case. Offsets always refer to s itself, so
// slicing s is safe even when lower-casing would change a rune's width.
func indexFold(s, substr string) (int, int) {
	if substr == "" {
		return -1, -1
	}

	for i := range s {
		if end, ok := hasPrefixFold(s[i:], substr); ok {
			return i, i + end
		}
	}
	return -1, -1
}

func hasPrefixFold(s, prefix string) (int, bool) {
	j := 0
	for _, pr := range prefix {
		if j >= len(s) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s[j:])
		if r != pr && unicode.ToLower(r) != unicode.ToLower(pr) {
			return 0, false
		}
		j += size
	}
	return j, true
}
