package extract

import (
	"fmt"
	"os"
)

// PlainTextStrategy reads a text or markdown file directly.
type PlainTextStrategy struct{}

func (s *PlainTextStrategy) Name() string { return "plain-text" }

func (s *PlainTextStrategy) Extract(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(raw), nil
}
