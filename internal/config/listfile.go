package config

import (
	"bufio"
	"os"
	"strings"
)

// ReadListFile reads a plain-text list file: UTF-8, one entry per line,
// blank lines and lines starting with '#' ignored, inline '#' comments
// stripped. Returns the entries in file order.
func ReadListFile(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path derives from the project root
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
