// Package replythread embeds an optional quoted excerpt at the head of a
// message body so replies survive storage in a single text field.
package replythread

import (
	"errors"
	"regexp"
	"strings"
)

const (
	OpenMarker  = "<{(`\"'"
	CloseMarker = "'\"`)}>"
)

// ErrMarkerInExcerpt is returned when an excerpt contains CloseMarker and so
// could not be decoded back unchanged.
var ErrMarkerInExcerpt = errors.New("reply excerpt contains the closing marker")

var pattern = regexp.MustCompile("(?s)^" + regexp.QuoteMeta(OpenMarker) + "(.+?)" + regexp.QuoteMeta(CloseMarker) + " ?(.*)$")

// Thread is a decoded message body.
type Thread struct {
	Excerpt string
	Body    string
}

// IsReply reports whether the message quotes an earlier one.
func (t Thread) IsReply() bool {
	return t.Excerpt != ""
}

// Encode prefixes body with excerpt. An empty excerpt leaves body unchanged.
func Encode(excerpt, body string) (string, error) {
	if excerpt == "" {
		return body, nil
	}
	if strings.Contains(excerpt, CloseMarker) {
		return "", ErrMarkerInExcerpt
	}
	return OpenMarker + excerpt + CloseMarker + " " + body, nil
}

// Decode splits content into excerpt and body. Content without the marker
// prefix is returned whole as the body.
func Decode(content string) Thread {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return Thread{Body: content}
	}
	return Thread{Excerpt: m[1], Body: m[2]}
}

// IsEncoded reports whether content already carries a reply excerpt.
func IsEncoded(content string) bool {
	return pattern.MatchString(content)
}
