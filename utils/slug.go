package utils

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MaxSlugLength      = 100
	defaultSlugBase    = "kart"
	mainCardBaseLength = 60
)

var (
	ErrSlugEmpty       = errors.New("slug boş olamaz")
	ErrSlugTooLong     = errors.New("slug çok uzun")
	ErrSlugInvalidChar = errors.New("slug sadece a-z, 0-9, '-' ve '_' içerebilir")
)

// Ayrışmayan harfler (ı, ø, ß ...) için elle eşleme.
var foldReplacer = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ø", "o", "Ø", "o",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"đ", "d", "Đ", "d",
	"ł", "l", "Ł", "l",
)

// NormalizeSlug karşılaştırma ve saklama için slug'ı trim + lowercase yapar.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateSlug normalize edilmiş bir slug'ın biçimini kontrol eder.
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrSlugEmpty
	}
	if len(slug) > MaxSlugLength {
		return ErrSlugTooLong
	}
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			continue
		}
		return ErrSlugInvalidChar
	}
	return nil
}

// Slugify görünen isimden URL güvenli bir taban üretir: aksanlar atılır,
// harf ve rakam dışındaki karakter grupları tek '-' olur.
func Slugify(name string) string {
	folded := foldReplacer.Replace(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, folded); err == nil {
		folded = out
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastDash := true
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > mainCardBaseLength {
		slug = strings.TrimRight(slug[:mainCardBaseLength], "-")
	}
	if slug == "" {
		return defaultSlugBase
	}
	return slug
}

// SlugWithSuffix isimden türetilen tabana rastgele bir ek ekler ("ayse-yilmaz-x3k9qa").
func SlugWithSuffix(name string, suffixLength int) (string, error) {
	suffix, err := GenerateSecureRandomString(suffixLength)
	if err != nil {
		return "", err
	}
	return Slugify(name) + "-" + suffix, nil
}
