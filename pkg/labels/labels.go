// Package labels resolves human-friendly display labels for option groups and
// fields. Lookup is advisory: a provider that cannot resolve a label falls
// back to a humanised form of the raw name, so rendering never fails on a
// missing translation.
package labels

import (
	"regexp"
	"strings"
)

// Provider resolves the label for a schema element addressed by path. The
// fallback is the element's raw or declared display name.
type Provider interface {
	Label(path, fallback string) string
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(path, fallback string) string

// Label delegates to the underlying function.
func (fn ProviderFunc) Label(path, fallback string) string {
	return fn(path, fallback)
}

// Default returns the built-in provider: declared display names are sanitised
// of any markup, raw names are humanised.
func Default() Provider {
	return ProviderFunc(func(_, fallback string) string {
		cleaned := sanitizeLabelMarkup(fallback)
		if cleaned == "" {
			return ""
		}
		if cleaned != fallback {
			return cleaned
		}
		if strings.ContainsAny(cleaned, " ") {
			return cleaned
		}
		return Humanize(cleaned)
	})
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// Humanize converts a field or group name into a human-friendly label. It
// splits on underscores/dashes and camelCase boundaries.
func Humanize(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) string {
	var out strings.Builder
	var prev rune
	for i, r := range input {
		if i > 0 && isBoundary(prev, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
		prev = r
	}
	return out.String()
}

func isBoundary(prev, r rune) bool {
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	words := strings.Split(word, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
