package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertCJKPunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma and period", "本文证明了猜想，给出了新方法。", "本文证明了猜想, 给出了新方法."},
		{"parentheses", "工具（derived category）很关键", "工具(derived category) 很关键"},
		{"quotes", "「重要」的结果", `"重要" 的结果`},
		{"collapses double spaces", "结果。 然后", "结果. 然后"},
		{"ascii untouched", "already ascii, fine.", "already ascii, fine."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertCJKPunctuation(tt.in))
		})
	}
}

func TestNormalizeMathDelimiters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"inline dollars", `the space $X$ is smooth`, `the space \(X\) is smooth`},
		{"display dollars", `equation $$a=b$$ holds`, `equation \[a=b\] holds`},
		{"already normalized", `\(X\) and \[a=b\]`, `\(X\) and \[a=b\]`},
		{"mixed", `$x$ and $$y$$`, `\(x\) and \[y\]`},
		{"no math", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMathDelimiters(tt.in))
		})
	}
}

func TestEscapeLaTeX(t *testing.T) {
	assert.Equal(t, `Jos\\'e`, escapeLaTeX(`Jos\'e`))
	assert.Equal(t, "plain", escapeLaTeX("plain"))
}
