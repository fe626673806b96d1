package render

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// pdfCompileTimeout bounds one latexmk invocation.
const pdfCompileTimeout = 5 * time.Minute

// PDFCompiler compiles a generated LaTeX file to PDF with latexmk. The
// compile step is optional; callers treat its failure as non-fatal.
type PDFCompiler struct {
	// Engine is the latexmk engine flag, e.g. "xelatex".
	Engine string
}

// NewPDFCompiler creates a compiler for the given engine, defaulting to
// xelatex for CJK support.
func NewPDFCompiler(engine string) *PDFCompiler {
	if engine == "" {
		engine = "xelatex"
	}
	return &PDFCompiler{Engine: engine}
}

// Available reports whether latexmk is installed.
func (c *PDFCompiler) Available() bool {
	_, err := exec.LookPath("latexmk")
	return err == nil
}

// Compile runs latexmk on the given .tex file in its own directory and
// returns the path of the produced PDF.
func (c *PDFCompiler) Compile(ctx context.Context, texPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfCompileTimeout)
	defer cancel()

	dir := filepath.Dir(texPath)
	cmd := exec.CommandContext(ctx, "latexmk",
		"-"+c.Engine,
		"-interaction=nonstopmode",
		"-pdf",
		filepath.Base(texPath))
	cmd.Dir = dir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(start)

	if err != nil {
		slog.Error("pdf compile failed",
			slog.String("tex", texPath),
			slog.Duration("duration", duration),
			slog.String("output", tail(string(output), 2000)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("latexmk %s: %w", texPath, err)
	}

	pdfPath := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
	slog.Info("pdf compile completed",
		slog.String("pdf", pdfPath),
		slog.Duration("duration", duration))
	return pdfPath, nil
}

// tail returns the last n bytes of s for log output.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
