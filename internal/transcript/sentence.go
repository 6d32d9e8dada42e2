package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Rule locates sentence boundaries in a block of text.
type Rule interface {
	// Delimiters returns the ordered, non-overlapping [start, end) byte ranges
	// separating consecutive sentences. The ranges are dropped from the output.
	Delimiters(text string) [][2]int
}

// spaceClass approximates Unicode whitespace, which RE2's \s does not cover.
const spaceClass = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// isSpace matches the runes in spaceClass.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f) || unicode.Is(unicode.Z, r)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

const (
	// DefaultPattern splits after terminal punctuation followed by whitespace
	// and an ASCII capital. Abbreviations, decimals and lowercase starts are
	// never boundaries.
	DefaultPattern = `[.!?](` + spaceClass + `+)[A-Z]`
	// UnicodePattern accepts any uppercase letter as the start of a sentence.
	UnicodePattern = `[.!?](` + spaceClass + `+)\p{Lu}`
)

// Rule names accepted by RuleByName.
const (
	RuleDefault = "default"
	RuleUnicode = "unicode"
)

// PatternRule is a Rule backed by a regular expression whose single capture
// group marks the delimiter.
type PatternRule struct {
	re *regexp.Regexp
}

// NewPatternRule compiles pattern into a Rule. The pattern must contain exactly
// one capture group.
func NewPatternRule(pattern string) (*PatternRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile boundary pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("boundary pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return &PatternRule{re: re}, nil
}

var (
	defaultRule = &PatternRule{re: regexp.MustCompile(DefaultPattern)}
	unicodeRule = &PatternRule{re: regexp.MustCompile(UnicodePattern)}
)

// DefaultRule returns the punctuation + whitespace + ASCII capital rule.
func DefaultRule() Rule { return defaultRule }

// UnicodeRule returns the punctuation + whitespace + any capital rule.
func UnicodeRule() Rule { return unicodeRule }

// RuleByName resolves a configured rule name.
func RuleByName(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RuleDefault:
		return DefaultRule(), nil
	case RuleUnicode:
		return UnicodeRule(), nil
	default:
		return nil, fmt.Errorf("unknown sentence rule %q (want %q or %q)", name, RuleDefault, RuleUnicode)
	}
}

// Pattern returns the source of the compiled expression.
func (r *PatternRule) Pattern() string {
	return r.re.String()
}

// Delimiters implements Rule.
func (r *PatternRule) Delimiters(text string) [][2]int {
	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([][2]int, 0, len(matches))
	for _, m := range matches {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		out = append(out, [2]int{m[2], m[3]})
	}
	return out
}

// SplitSentences cuts text at every delimiter reported by rule. A nil rule
// means DefaultRule. Text without delimiters comes back as a single element,
// so the empty string yields []string{""}.
func SplitSentences(text string, rule Rule) []string {
	if rule == nil {
		rule = DefaultRule()
	}
	delims := rule.Delimiters(text)
	sentences := make([]string, 0, len(delims)+1)
	start := 0
	for _, d := range delims {
		if d[0] < start || d[1] < d[0] || d[1] > len(text) {
			continue
		}
		sentences = append(sentences, text[start:d[0]])
		start = d[1]
	}
	return append(sentences, text[start:])
}
