package platform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Input length limits to prevent unbounded memory growth from pasted text
const (
	MaxInputLength = 500
	MaxPasteLength = 10000
)

// CanonicalVideoURLTemplate is the normalized form extracted URLs are
// rewritten to
const CanonicalVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// YouTube URL patterns, in order of preference
var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https://youtu\.be/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`watch\?v=([a-zA-Z0-9_-]+)`),
}

// ExtractYouTubeURL finds a YouTube video reference in messy text and
// returns it in canonical watch-URL form
func ExtractYouTubeURL(text string) (string, bool) {
	for _, pattern := range youtubeURLPatterns {
		matches := pattern.FindStringSubmatch(text)
		if len(matches) > 1 && matches[1] != "" {
			return fmt.Sprintf(CanonicalVideoURLTemplate, matches[1]), true
		}
	}
	return "", false
}

// IsYouTubeURL reports whether the string references a YouTube host
func IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

// CleanText removes control characters and normalizes whitespace.
// Tabs and newlines survive the first pass so Fields can treat them as
// word separators.
func CleanText(text string) string {
	var b strings.Builder
	for _, r := range text {
		if !unicode.IsControl(r) || r == '\t' || r == '\n' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SanitizeInput prepares arbitrary pasted text for use as a URL: truncates
// oversized pastes, extracts a canonical YouTube URL when one is present,
// otherwise cleans the text and bounds its length
func SanitizeInput(input string) string {
	if len(input) > MaxPasteLength {
		input = input[:MaxPasteLength]
	}

	if url, ok := ExtractYouTubeURL(input); ok {
		return url
	}

	cleaned := CleanText(input)
	if len(cleaned) > MaxInputLength {
		cleaned = cleaned[:MaxInputLength]
	}
	return cleaned
}
