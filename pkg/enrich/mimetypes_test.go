package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMIME(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "Image (JPEG)"},
		{"Image/JPEG", "Image (JPEG)"},
		{" video/mp4 ", "Video (MP4)"},
		{"application/pdf", "Document (PDF)"},
		{"application/x-totally-unknown", "Unknown file"},
		{"", "Unknown file"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, classifyMIME(c.mime), "mime=%q", c.mime)
	}
}
