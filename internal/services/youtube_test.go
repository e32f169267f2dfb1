package services

import (
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"raw ID passthrough", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"standard watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&list=PL123", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=30", "dQw4w9WgXcQ"},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no scheme falls back to regex", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not a video URL", "https://www.youtube.com/feed/subscriptions", ""},
		{"unrelated URL", "https://example.com/watch?v=nope", ""},
		{"empty string", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractVideoID(tc.url); got != tc.expected {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.expected)
			}
		})
	}
}

func TestExtractCaptionURL(t *testing.T) {
	page := `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https:\/\/www.youtube.com\/api\/timedtext?v=dQw4w9WgXcQ&lang=en","languageCode":"en"}],"audioTracks":[]}}}`

	u, err := extractCaptionURL(page)
	if err != nil {
		t.Fatalf("extractCaptionURL returned error: %v", err)
	}
	if strings.Contains(u, `&`) {
		t.Errorf("Caption URL still contains escaped ampersand: %q", u)
	}
	if !strings.Contains(u, "lang=en") || !strings.Contains(u, "&") {
		t.Errorf("Expected unescaped query string, got %q", u)
	}
	if strings.Contains(u, `\/`) {
		t.Errorf("Caption URL still contains escaped slashes: %q", u)
	}
}

func TestExtractCaptionURL_NoCaptions(t *testing.T) {
	if _, err := extractCaptionURL(`{"videoDetails":{"title":"No subs here"}}`); err == nil {
		t.Error("Expected error for page without caption tracks")
	}
}

func TestParseCaptionsXML(t *testing.T) {
	xmlData := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">Welcome to the lecture.</text>
  <text start="2.6" dur="3.0">Today we cover &amp;quot;recursion&amp;quot;.</text>
  <text start="5.6" dur="1.0">   </text>
</transcript>`)

	got, err := parseCaptionsXML(xmlData)
	if err != nil {
		t.Fatalf("parseCaptionsXML returned error: %v", err)
	}
	if !strings.Contains(got, "Welcome to the lecture.") {
		t.Errorf("Expected first caption in output, got %q", got)
	}
	if strings.Contains(got, "&amp;") {
		t.Errorf("HTML entities not unescaped: %q", got)
	}
}

func TestParseCaptionsXML_Empty(t *testing.T) {
	if _, err := parseCaptionsXML([]byte(`<transcript></transcript>`)); err == nil {
		t.Error("Expected error for empty captions XML")
	}
}
