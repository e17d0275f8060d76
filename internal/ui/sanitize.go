// Package ui holds the headless view model of the chat page: the transcript,
// the conversation sidebar and the settings form.
package ui

import (
	"fmt"
	"strings"
)

// The order matters: ampersands first so later entities are not re-escaped.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "<br/>",
)

// Sanitize renders v as text that is safe to insert into HTML content.
// nil becomes the empty string and non-strings use their default formatting.
// The only markup ever produced is <br/> for newlines.
func Sanitize(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case *string:
		if x == nil {
			return ""
		}
		s = *x
	default:
		s = fmt.Sprint(x)
	}
	return htmlReplacer.Replace(s)
}
