package naming

import (
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

const maxSlugLen = 64

// Slugify reduces a client-supplied name to lowercase alphanumerics and
// single hyphens, with no leading or trailing hyphen. Empty or fully
// unusable input falls back to "image".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}

	slug := b.String()
	if slug == "" {
		return "image"
	}
	return slug
}

// UniqueFileName derives a URL- and filesystem-safe name from the original
// upload filename. The ksuid suffix (timestamp + 128 bits of randomness)
// makes concurrent uploads of the same original name collision-free without
// coordination.
func UniqueFileName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	suffix := strings.ToLower(ksuid.New().String())
	return Slugify(base) + "-" + suffix + "." + ext
}
