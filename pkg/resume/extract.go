package resume

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// maxTextLen caps extracted text so oversized resumes don't blow up prompts
const maxTextLen = 20000

// ExtractText pulls plain text out of an uploaded resume file.
// Supported content types: PDF, DOCX and plain text.
func ExtractText(contentType, filename string, data []byte) (string, error) {
	switch {
	case contentType == "application/pdf" || strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return extractPDFText(data)

	case contentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		strings.HasSuffix(strings.ToLower(filename), ".docx"):
		return extractDocxText(data)

	case strings.HasPrefix(contentType, "text/"):
		return truncate(string(data)), nil

	default:
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}

	return truncate(textBuilder.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	r := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(r, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return truncate(doc.Editable().GetContent()), nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxTextLen {
		return s
	}
	// Back up to a rune boundary so a multi-byte character is never split
	cut := maxTextLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
