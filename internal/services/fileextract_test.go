package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractText_TXT(t *testing.T) {
	svc := NewFileExtractService()

	text, err := svc.ExtractText("notes.txt", []byte("Line one\r\n\r\n\r\n\r\nLine two  \n"))
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	if !strings.Contains(text, "Line one") || !strings.Contains(text, "Line two") {
		t.Errorf("Extracted text missing content: %q", text)
	}
	if strings.Contains(text, "\n\n\n") {
		t.Errorf("Blank lines not collapsed: %q", text)
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	svc := NewFileExtractService()

	if _, err := svc.ExtractText("image.png", []byte{0x89, 0x50}); err == nil {
		t.Error("Expected error for unsupported file type")
	}
}

func TestExtractText_EmptyTXT(t *testing.T) {
	svc := NewFileExtractService()

	if _, err := svc.ExtractText("empty.txt", []byte("   \n\n  ")); err == nil {
		t.Error("Expected error for whitespace-only text file")
	}
}

func TestExtractText_DOCX(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph with &amp; symbol.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}
	zw.Close()

	svc := NewFileExtractService()
	text, err := svc.ExtractText("report.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	if !strings.Contains(text, "First paragraph with & symbol.") {
		t.Errorf("Entities or runs mishandled: %q", text)
	}
	if !strings.Contains(text, "Second paragraph.") {
		t.Errorf("Second paragraph missing: %q", text)
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("XML tags leaked into extracted text: %q", text)
	}
}

func TestStripDOCXML(t *testing.T) {
	src := []byte(`<w:p><w:r><w:t>Alpha</w:t></w:r><w:tab/><w:r><w:t>Beta</w:t></w:r></w:p>`)

	got := stripDOCXML(src)
	if !strings.Contains(got, "Alpha") || !strings.Contains(got, "Beta") {
		t.Errorf("Text runs lost: %q", got)
	}
	if !strings.Contains(got, "\t") {
		t.Errorf("Tab element not converted: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("Tags not stripped: %q", got)
	}
}
