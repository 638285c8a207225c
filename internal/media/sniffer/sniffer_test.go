package sniffer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}, TypePNG},
		{"gif", []byte("GIF89a______"), TypeGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Type)
			assert.Equal(t, "image/"+string(tc.want), result.MIME)
		})
	}
}

func TestDetectHeadUnknown(t *testing.T) {
	for _, head := range [][]byte{nil, {}, []byte("plain text"), []byte("<svg></svg>")} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "image/png; charset=utf-8")
	assert.Equal(t, "image/png", MimeTypeFromHTTP(header))

	header.Set("Content-Type", " image/jpeg ")
	assert.Equal(t, "image/jpeg", MimeTypeFromHTTP(header))

	assert.Equal(t, "", MimeTypeFromHTTP(http.Header{}))
}
