package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageName(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"es", "Spanish"},
		{"EN", "English"},
		{"en-US", "English"},
		{"pt-BR", "Portuguese"},
		{" fr ", "French"},
		{"sw", "SW"}, // outside the table, upper-cased code
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, languageName(tc.code), "code %q", tc.code)
	}
}

func TestComposeShort(t *testing.T) {
	out := composeShort("Spanish", "hola mundo", 100)
	assert.Contains(t, out, "<b>Transcription (Spanish)</b>")
	assert.Contains(t, out, "hola mundo")
	assert.Contains(t, out, "under 100 words")
}

func TestComposeFull(t *testing.T) {
	out := composeFull("English", "the transcript", "the summary", "the response")
	assert.Contains(t, out, "<b>Transcription (English)</b>")
	assert.Contains(t, out, "<b>Summary</b>")
	assert.Contains(t, out, "<b>Response</b>")
	assert.Contains(t, out, "the transcript")
	assert.Contains(t, out, "the summary")
	assert.Contains(t, out, "the response")
}
