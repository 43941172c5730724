package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Senior Network Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>BGP &amp; OSPF</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Company</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Years</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocxXMLStrategy(t *testing.T) {
	path := writeDocx(t, sampleDocumentXML)

	text, err := (&DocxXMLStrategy{}).Extract(path)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	for _, want := range []string{"Senior Network Engineer", "BGP & OSPF", "Company", "Years"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "Skills:\tBGP & OSPF") {
		t.Errorf("tab stop not preserved:\n%s", text)
	}
	if !strings.Contains(text, "Senior Network Engineer\n") {
		t.Errorf("paragraph boundary not a line break:\n%s", text)
	}
}

func TestDocxRawStrategy(t *testing.T) {
	path := writeDocx(t, sampleDocumentXML)

	text, err := (&DocxRawStrategy{}).Extract(path)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	for _, want := range []string{"Senior Network Engineer", "BGP & OSPF"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("tags survived stripping:\n%s", text)
	}
}

func TestDocxMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := (&DocxXMLStrategy{}).Extract(path); err == nil {
		t.Error("XML strategy succeeded on archive without document.xml")
	}
	if _, err := (&DocxRawStrategy{}).Extract(path); err == nil {
		t.Error("raw strategy succeeded on archive without document.xml")
	}
}

func TestDocxNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("not a zip file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&DocxXMLStrategy{}).Extract(path); err == nil {
		t.Error("Extract succeeded on non-zip input")
	}
}
