// Package extract acquires raw text from document files. Extraction is a
// sequence of interchangeable strategies tried in order until one produces
// enough text; the winning strategy's name is carried on the result for
// diagnostics only.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is raw text acquired from one input file.
type Document struct {
	Path   string
	Method string // name of the strategy that produced Text
	Text   string
}

// Strategy is one way of pulling text out of a document. Extract must not
// mutate the source file.
type Strategy interface {
	Name() string
	Extract(path string) (string, error)
}

// ExtractionError means every candidate strategy failed or produced too
// little text. It is fatal: both available methods were already exhausted.
type ExtractionError struct {
	Path     string
	Attempts []string // "strategy: reason" per tried strategy
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("document %s is unreadable: %s", e.Path, strings.Join(e.Attempts, "; "))
}

// StrategiesFor returns the ordered candidate strategies for a file, primary
// first.
func StrategiesFor(path string) []Strategy {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return []Strategy{&DocxXMLStrategy{}, &DocxRawStrategy{}}
	case ".pdf":
		return []Strategy{&PDFContentStrategy{}, &PDFToTextStrategy{}}
	case ".txt", ".md":
		return []Strategy{&PlainTextStrategy{}}
	default:
		return nil
	}
}

// SupportedExt reports whether a path has an extension Acquire can handle.
func SupportedExt(path string) bool {
	return len(StrategiesFor(path)) > 0
}

// Acquire runs strategies in order. A strategy fails when it errors or when
// its output, trimmed, is shorter than minLen. The first success wins; all
// failures produce an ExtractionError naming the document.
func Acquire(path string, strategies []Strategy, minLen int) (*Document, error) {
	if len(strategies) == 0 {
		return nil, &ExtractionError{Path: path, Attempts: []string{"no extraction strategy for file type"}}
	}

	var attempts []string
	for _, s := range strategies {
		text, err := s.Extract(path)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		if len(strings.TrimSpace(text)) < minLen {
			attempts = append(attempts, fmt.Sprintf("%s: produced %d bytes, below minimum %d", s.Name(), len(strings.TrimSpace(text)), minLen))
			continue
		}
		return &Document{Path: path, Method: s.Name(), Text: text}, nil
	}
	return nil, &ExtractionError{Path: path, Attempts: attempts}
}
