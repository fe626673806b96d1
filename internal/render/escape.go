package render

import (
	"regexp"
	"strings"
)

// cjkPunctuationReplacer maps fullwidth CJK punctuation to its ASCII
// counterpart so the commentary compiles cleanly under xelatex.
var cjkPunctuationReplacer = strings.NewReplacer(
	"，", ", ",
	"。", ". ",
	"；", "; ",
	"：", ": ",
	"？", "? ",
	"！", "! ",
	"（", "(",
	"）", ") ",
	"【", "[",
	"】", "] ",
	"「", `"`,
	"」", `" `,
	"『", `"`,
	"』", `" `,
	"《", `"`,
	"》", `" `,
)

// ConvertCJKPunctuation replaces fullwidth punctuation with ASCII
// punctuation and collapses the double spaces the substitution can leave.
func ConvertCJKPunctuation(s string) string {
	if s == "" {
		return s
	}
	s = cjkPunctuationReplacer.Replace(s)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// escapeLaTeX escapes characters that would break the generated document.
// Model commentary is expected to be LaTeX-safe already; this guards the
// metadata fields.
func escapeLaTeX(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

var (
	displayDollarPattern = regexp.MustCompile(`\$\$(.+?)\$\$`)
	inlineDollarPattern  = regexp.MustCompile(`\$(.+?)\$`)
)

// NormalizeMathDelimiters rewrites math delimiters in a commentary to the
// \(...\) and \[...\] forms that the KaTeX auto-render setup expects.
// $...$ and $$...$$ are converted; \(...\) and \[...\] already pass through.
func NormalizeMathDelimiters(s string) string {
	if s == "" {
		return s
	}
	s = displayDollarPattern.ReplaceAllString(s, `\[$1\]`)
	s = inlineDollarPattern.ReplaceAllString(s, `\($1\)`)
	return s
}
