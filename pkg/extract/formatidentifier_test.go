package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_SkipsHeaderAndPopulatesFields(t *testing.T) {
	f := NewFormatIdentifier(FormatIdentifierConfig{})

	out := []byte("FILE_PATH,PUID,MIME_TYPE,FORMAT_NAME,FORMAT_VERSION,SIZE,LAST_MODIFIED\n" +
		"/media/floppy1/a.txt,fmt/111,text/plain,Plain Text File,,12,2024-01-01\n" +
		"/media/floppy1/b.doc,fmt/40,application/msword,Microsoft Word,97-2003,512,2024-02-02\n")

	var result Result = newResult()
	require.NoError(t, f.parseCSV(out, &result))

	require.Contains(t, result.Fields, "/media/floppy1/a.txt")
	assert.Equal(t, "text/plain", result.Fields["/media/floppy1/a.txt"]["MIME_TYPE"])
	assert.Equal(t, "fmt/111", result.Fields["/media/floppy1/a.txt"]["PUID"])
	assert.Equal(t, "Microsoft Word", result.Fields["/media/floppy1/b.doc"]["FORMAT_NAME"])
}

func TestParseCSV_SkipsShortRows(t *testing.T) {
	f := NewFormatIdentifier(FormatIdentifierConfig{})
	out := []byte("FILE_PATH,PUID,MIME_TYPE,FORMAT_NAME,FORMAT_VERSION,SIZE,LAST_MODIFIED\n" +
		"/media/floppy1/c.txt,fmt/111\n")

	var result Result = newResult()
	require.NoError(t, f.parseCSV(out, &result))
	assert.Empty(t, result.Fields)
}

func TestName_ReturnsFSIdentifier(t *testing.T) {
	f := NewFormatIdentifier(FormatIdentifierConfig{})
	assert.Equal(t, "FS", f.Name())
}
