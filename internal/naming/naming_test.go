package naming

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Photo", "my-photo"},
		{"ABC123", "abc123"},
		{"--Weird__Name--", "weird-name"},
		{"visa  platinum   card", "visa-platinum-card"},
		{"", "image"},
		{"!!!", "image"},
		{"CashBack 5% Q4", "cashback-5-q4"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyLengthBounded(t *testing.T) {
	slug := Slugify(strings.Repeat("a", 500))
	assert.LessOrEqual(t, len(slug), maxSlugLen)
}

var fileNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*\.jpg$`)

func TestUniqueFileNameShape(t *testing.T) {
	name := UniqueFileName("My Photo.PNG", "jpg")
	require.True(t, fileNamePattern.MatchString(name), "got %q", name)
	assert.True(t, strings.HasPrefix(name, "my-photo-"))
}

func TestUniqueFileNameStripsPath(t *testing.T) {
	name := UniqueFileName("../../etc/passwd", "jpg")
	require.True(t, fileNamePattern.MatchString(name), "got %q", name)
	assert.True(t, strings.HasPrefix(name, "passwd-"))
}

func TestUniqueFileNameNeverCollides(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		name := UniqueFileName("photo.jpg", "jpg")
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %q", name)
		seen[name] = struct{}{}
	}
}
