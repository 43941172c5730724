package extract

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFContentStrategy extracts page content streams with pdfcpu and decodes
// the text-showing operators. Works without external tooling but can come up
// short on PDFs using exotic font encodings; the min-length gate then routes
// to the fallback.
type PDFContentStrategy struct{}

func (s *PDFContentStrategy) Name() string { return "pdfcpu-content" }

func (s *PDFContentStrategy) Extract(path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docsift-pdf-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ExtractContentFile(path, tmpDir, nil, conf); err != nil {
		return "", fmt.Errorf("extract content streams: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("read content dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(byPageNumber(names))

	var b strings.Builder
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(tmpDir, name))
		if err != nil {
			return "", fmt.Errorf("read content stream %s: %w", name, err)
		}
		b.WriteString(decodeTextOperators(string(raw)))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

var pageNumRe = regexp.MustCompile(`(\d+)\.txt$`)

// byPageNumber orders extracted content files by their page-number suffix.
type byPageNumber []string

func (p byPageNumber) Len() int      { return len(p) }
func (p byPageNumber) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p byPageNumber) Less(i, j int) bool {
	mi := pageNumRe.FindStringSubmatch(p[i])
	mj := pageNumRe.FindStringSubmatch(p[j])
	if len(mi) > 1 && len(mj) > 1 {
		var ni, nj int
		fmt.Sscanf(mi[1], "%d", &ni)
		fmt.Sscanf(mj[1], "%d", &nj)
		return ni < nj
	}
	return p[i] < p[j]
}

// textShowRe matches literal-string arguments of Tj/TJ/' text-showing
// operators in a decoded content stream.
var textShowRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|TJ|')`)

// tjArrayRe matches TJ arrays, whose string elements are concatenated.
var tjArrayRe = regexp.MustCompile(`\[((?:\\.|[^\]])*)\]\s*TJ`)

var literalString = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)

// decodeTextOperators pulls the text arguments out of a page content stream.
// Line state (TD/Td/T*) is approximated with newlines between operators.
func decodeTextOperators(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		wrote := false
		for _, m := range tjArrayRe.FindAllStringSubmatch(line, -1) {
			for _, sm := range literalString.FindAllStringSubmatch(m[1], -1) {
				b.WriteString(unescapePDFString(sm[1]))
			}
			wrote = true
		}
		for _, m := range textShowRe.FindAllStringSubmatch(line, -1) {
			b.WriteString(unescapePDFString(m[1]))
			wrote = true
		}
		if wrote {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func unescapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r', 'f', 'b':
			// formatting escapes carry no text
		case '(', ')', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// PDFToTextStrategy shells out to poppler's pdftotext, the dependable
// fallback when content-stream decoding comes up short.
type PDFToTextStrategy struct{}

func (s *PDFToTextStrategy) Name() string { return "pdftotext" }

func (s *PDFToTextStrategy) Extract(path string) (string, error) {
	bin, err := exec.LookPath("pdftotext")
	if err != nil {
		return "", fmt.Errorf("pdftotext not installed: %w", err)
	}

	// "-" writes the text to stdout; -layout preserves column structure for
	// the normalizer's table flattening.
	out, err := exec.Command(bin, "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}
