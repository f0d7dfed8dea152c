package ingestion_test

import (
	"strings"
	"testing"

	"github.com/aganswers/spotlight/internal/ingestion"
)

func TestExtractTextPlain(t *testing.T) {
	data := []byte("line one\r\nline two\x00\n")

	text, err := ingestion.ExtractText(classify("notes.txt"), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "line one\nline two" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextHTML(t *testing.T) {
	data := []byte(`<html><head>
		<style>body { color: red }</style>
		<script>alert("skip me")</script>
	</head><body>
		<h1>Soil Health</h1>
		<p>Cover crops improve structure.</p>
	</body></html>`)

	text, err := ingestion.ExtractText(classify("page.html"), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Soil Health") {
		t.Errorf("missing heading text in %q", text)
	}
	if !strings.Contains(text, "Cover crops improve structure.") {
		t.Errorf("missing paragraph text in %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color: red") {
		t.Errorf("script or style content leaked into %q", text)
	}
}

func TestExtractTextUnparsedFormatsGetDescriptor(t *testing.T) {
	text, err := ingestion.ExtractText(classify("essay.docx"), []byte("PK..."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "essay.docx") {
		t.Errorf("descriptor should name the file, got %q", text)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"under limit", "short", 100, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "truncated", 5, "trunc"},
		{"zero limit keeps all", "keep", 0, "keep"},
		{"limit counts characters not bytes", "héllo", 2, "hé"},
		{"multibyte over limit", "çãéîø", 3, "çãé"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ingestion.Excerpt(tc.text, tc.limit); got != tc.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tc.text, tc.limit, got, tc.want)
			}
		})
	}
}
