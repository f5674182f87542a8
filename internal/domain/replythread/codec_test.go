package replythread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		excerpt string
		body    string
	}{
		{"simple", "hello", "world"},
		{"empty body", "hello", ""},
		{"body with leading space", "hi", " padded"},
		{"multiline", "line one\nline two", "answer\nacross lines"},
		{"body holds markers", "quote", OpenMarker + "x" + CloseMarker + " y"},
		{"excerpt holds open marker", "a " + OpenMarker + " b", "c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := Encode(tc.excerpt, tc.body)
			require.NoError(t, err)

			got := Decode(encoded)
			assert.Equal(t, tc.excerpt, got.Excerpt)
			assert.Equal(t, tc.body, got.Body)
			assert.True(t, got.IsReply())
		})
	}
}

func TestDecodeWireFormat(t *testing.T) {
	got := Decode("<{(`\"'hi'\"`)}> hello")
	assert.Equal(t, Thread{Excerpt: "hi", Body: "hello"}, got)

	noSpace := Decode("<{(`\"'hi'\"`)}>hello")
	assert.Equal(t, Thread{Excerpt: "hi", Body: "hello"}, noSpace)
}

func TestDecodePlainContent(t *testing.T) {
	for _, content := range []string{"plain text", "", "<{(`\"''\"`)}> empty excerpt", "'\"`)}> only close"} {
		got := Decode(content)
		assert.False(t, got.IsReply(), content)
		assert.Equal(t, content, got.Body)
	}
}

func TestEncodeWithoutExcerpt(t *testing.T) {
	encoded, err := Encode("", "just a message")
	require.NoError(t, err)
	assert.Equal(t, "just a message", encoded)
	assert.False(t, IsEncoded(encoded))
}

func TestEncodeRejectsCloseMarkerInExcerpt(t *testing.T) {
	_, err := Encode("bad "+CloseMarker+" excerpt", "body")
	assert.ErrorIs(t, err, ErrMarkerInExcerpt)
}
