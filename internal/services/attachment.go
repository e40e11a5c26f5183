package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractAttachmentText turns an uploaded attachment (crew list CSV, call
// sheet PDF, schedule doc) into plain text for the extraction prompt. The
// true type is sniffed from magic bytes first; the filename extension is only
// a fallback hint.
func ExtractAttachmentText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %s", filename)
	}

	if isPDF(data) {
		text, err := extractPDFPages(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf %s: %w", filename, err)
		}
		return fmt.Sprintf("[PDF file: %s]\n\n%s", filepath.Base(filename), text), nil
	}

	if isZipContainer(data) {
		text, err := extractDocxText(data)
		if err != nil {
			return "", fmt.Errorf("extract docx %s: %w", filename, err)
		}
		return text, nil
	}

	if isProbablyText(data) {
		return string(data), nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return "", fmt.Errorf("file %s claims pdf but lacks the %%PDF header", filename)
	}
	return "", fmt.Errorf("unsupported attachment type: %s", filename)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZipContainer(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// isProbablyText accepts CSV, TXT and other plain formats: mostly printable
// bytes, no NULs.
func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	printable := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) > 0.9
}

// extractPDFPages extracts plain text page by page, labeling each page so the
// model can reference the source document structure.
func extractPDFPages(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i, text))
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("no extractable text found")
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractDocxText pulls the <w:t> runs out of word/document.xml.
func extractDocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("zip container is not a docx document")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	raw, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from document")
	}
	return text, nil
}
