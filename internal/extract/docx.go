package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DocxXMLStrategy walks word/document.xml with a streaming XML decoder,
// emitting paragraph and table-row boundaries as line breaks and tab stops as
// tabs. Handles the layouts simpler readers miss (tables, breaks).
type DocxXMLStrategy struct{}

func (s *DocxXMLStrategy) Name() string { return "docx-xml" }

func (s *DocxXMLStrategy) Extract(path string) (string, error) {
	r, err := openDocumentXML(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	dec := xml.NewDecoder(r)
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "tr":
				b.WriteByte('\n')
			case "tc":
				b.WriteByte('\t')
			}
		}
	}
	return b.String(), nil
}

// DocxRawStrategy strips tags from word/document.xml with regular
// expressions. Cruder than the XML walk but tolerant of namespace damage and
// mildly malformed markup.
type DocxRawStrategy struct{}

func (s *DocxRawStrategy) Name() string { return "docx-raw" }

var (
	docxParaEnd = regexp.MustCompile(`</w:p\s*>`)
	docxTags    = regexp.MustCompile(`<[^>]*>`)
)

func (s *DocxRawStrategy) Extract(path string) (string, error) {
	r, err := openDocumentXML(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document.xml: %w", err)
	}

	text := docxParaEnd.ReplaceAllString(string(raw), "\n")
	text = docxTags.ReplaceAllString(text, "")
	return unescapeXML(text), nil
}

func openDocumentXML(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				zr.Close()
				return nil, fmt.Errorf("open document.xml: %w", err)
			}
			return &zipEntryReader{rc: rc, zr: zr}, nil
		}
	}
	zr.Close()
	return nil, fmt.Errorf("no word/document.xml in archive")
}

// zipEntryReader ties the archive's lifetime to the entry reader's.
type zipEntryReader struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (z *zipEntryReader) Read(p []byte) (int, error) { return z.rc.Read(p) }

func (z *zipEntryReader) Close() error {
	err := z.rc.Close()
	if cerr := z.zr.Close(); err == nil {
		err = cerr
	}
	return err
}

var xmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}
