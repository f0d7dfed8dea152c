package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/net/html"
)

// ExtractText pulls readable text from an unstructured document for local
// chunking and metadata prompts. Formats without a local parser yield a
// short descriptor so downstream stages still have something to work with.
func ExtractText(file ClassifiedFile, data []byte) (string, error) {
	switch file.Extension {
	case "txt", "md", "rtf":
		return sanitizeText(data), nil
	case "html", "htm":
		return extractHTML(data)
	case "pdf":
		return describePDF(file.DisplayName, data)
	default:
		// docx, pptx and friends need the retrieval engine's parsers; a
		// descriptor keeps metadata extraction functional.
		return fmt.Sprintf("Document: %s (%s file, %d bytes)",
			file.DisplayName, file.Extension, len(data)), nil
	}
}

// Excerpt bounds text to at most limit characters. The excerpt_chars and
// prompt_chars knobs are character budgets, so multibyte text keeps its
// full allowance.
func Excerpt(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	seen := 0
	for i := range text {
		if seen == limit {
			return text[:i]
		}
		seen++
	}
	return text
}

// extractHTML walks the token stream collecting text nodes, skipping
// script and style content.
func extractHTML(data []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))

	var builder strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sanitizeText([]byte(builder.String())), nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(name) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(name) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				builder.WriteString(text)
				builder.WriteByte('\n')
			}
		}
	}
}

func isSkippedTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "noscript":
		return true
	default:
		return false
	}
}

// describePDF produces a page-level descriptor. Full PDF text extraction
// is delegated to the retrieval engine's parsers on the import path.
func describePDF(displayName string, data []byte) (string, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("inspect pdf %s: %w", displayName, err)
	}

	return fmt.Sprintf("Document: %s (PDF, %d pages)", displayName, pages), nil
}

// sanitizeText normalizes line endings and strips null bytes that break
// jsonb storage.
func sanitizeText(data []byte) string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}
