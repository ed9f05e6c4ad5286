package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValueStream_SplitsByFileSeparator(t *testing.T) {
	out := []byte(
		"======== /media/hd1/photo.jpg\n" +
			"File Type: JPEG\n" +
			"Image Width: 1024\n" +
			"======== /media/hd1/clip.mp4\n" +
			"File Type: MP4\n" +
			"Duration: 12.3 s\n",
	)

	result := newResult()
	parseKeyValueStream(out, &result)

	assert.Equal(t, "JPEG", result.Fields["/media/hd1/photo.jpg"]["File Type"])
	assert.Equal(t, "1024", result.Fields["/media/hd1/photo.jpg"]["Image Width"])
	assert.Equal(t, "MP4", result.Fields["/media/hd1/clip.mp4"]["File Type"])
	assert.Equal(t, "12.3 s", result.Fields["/media/hd1/clip.mp4"]["Duration"])
}

func TestParseKeyValueStream_IgnoresLinesBeforeFirstSeparator(t *testing.T) {
	out := []byte("stray: value\n======== /a\nField: X\n")

	result := newResult()
	parseKeyValueStream(out, &result)

	assert.NotContains(t, result.Fields, "")
	assert.Equal(t, "X", result.Fields["/a"]["Field"])
}

func TestName_ReturnsETIdentifier(t *testing.T) {
	m := NewMediaExtractor(MediaExtractorConfig{})
	assert.Equal(t, "ET", m.Name())
}
