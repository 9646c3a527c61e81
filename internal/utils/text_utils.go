package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	salutationLine = regexp.MustCompile(`(?im)^[ \t]*(dear|hi|hello|greetings|good (morning|afternoon|evening))\b[^\n]{0,60}[,:!][ \t]*$`)
	closingLine    = regexp.MustCompile(`(?im)^[ \t]*(best regards|kind regards|warm regards|regards|sincerely( yours)?|yours (truly|sincerely)|thanks|thank you|many thanks|cheers|best)[ \t]*[,.!]?[ \t]*$`)
	placeholder    = regexp.MustCompile(`\[[^\]\n]*\]`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// TextProcessor provides utilities for processing generated text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// RuneLen returns the number of characters in text
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Drop invalid bytes, keep literal U+FFFD characters
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// Normalize sanitizes text and converts it to NFC so character counts are stable
func (tp *TextProcessor) Normalize(text string) string {
	return norm.NFC.String(tp.SanitizeUTF8(text))
}

// StripSignoffs removes greeting lines, bracketed placeholders, and everything from the
// first closing line onwards. The result is collapsed to single spaces.
func (tp *TextProcessor) StripSignoffs(text string) string {
	stripped := text
	if loc := closingLine.FindStringIndex(stripped); loc != nil {
		stripped = stripped[:loc[0]]
	}
	stripped = salutationLine.ReplaceAllString(stripped, "")
	stripped = placeholder.ReplaceAllString(stripped, "")
	stripped = CollapseWhitespace(stripped)

	tp.logger.Debug("Sign-offs stripped",
		zap.Int("original_length", RuneLen(text)),
		zap.Int("stripped_length", RuneLen(stripped)))

	return stripped
}

// CollapseWhitespace replaces every run of whitespace with one space and trims the ends
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// FitLength forces text to exactly length characters. Longer text is cut and ends with
// ellipsis; shorter text is padded with repeated copies of filler. An empty filler pads with spaces.
func (tp *TextProcessor) FitLength(text string, length int, ellipsis, filler string) string {
	if length <= 0 {
		return ""
	}

	runes := []rune(text)
	switch {
	case len(runes) > length:
		tail := []rune(ellipsis)
		if len(tail) >= length {
			return string(tail[:length])
		}
		fitted := string(runes[:length-len(tail)]) + ellipsis
		tp.logger.Debug("Text truncated",
			zap.Int("original_length", len(runes)),
			zap.Int("target_length", length))
		return fitted
	case len(runes) < length:
		if filler == "" {
			filler = " "
		}
		fill := []rune(filler)
		padded := make([]rune, 0, length)
		padded = append(padded, runes...)
		for len(padded) < length {
			padded = append(padded, fill...)
		}
		tp.logger.Debug("Text padded",
			zap.Int("original_length", len(runes)),
			zap.Int("target_length", length))
		return string(padded[:length])
	default:
		return text
	}
}
