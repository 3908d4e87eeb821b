package seo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug is a normalized, URL-safe identifier derived from a title:
// lowercase, hyphen-separated, ASCII only. Immutable once constructed.
type Slug struct {
	value string
}

// German umlauts get their conventional two-letter transliteration instead
// of a plain diacritic fold, so "für" becomes "fuer", not "fur".
var germanReplacer = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NewSlug derives a slug from a title. Slugging is idempotent: applying it
// to an already-slugged string yields the same slug.
func NewSlug(title string) Slug {
	s := strings.ToLower(title)
	s = germanReplacer.Replace(s)

	// Fold remaining diacritics (é -> e, ç -> c, ...)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}

	// Collapse every non-alphanumeric run into a single hyphen
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return Slug{value: strings.TrimRight(b.String(), "-")}
}

// String returns the normalized slug value
func (s Slug) String() string {
	return s.value
}

// Equal reports whether two slugs share the same normalized value
func (s Slug) Equal(other Slug) bool {
	return s.value == other.value
}

// IsEmpty reports whether the slug carries no value, which happens when the
// source title contains no alphanumeric characters at all
func (s Slug) IsEmpty() bool {
	return s.value == ""
}
