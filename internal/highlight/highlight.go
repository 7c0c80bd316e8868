// Package highlight annotates document text with emphasis markers around
// classifier-extracted terms so a viewer can render them highlighted.
package highlight

import (
	"regexp"
	"strings"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight wraps every case-insensitive occurrence of each term in
// <mark>...</mark>, together with any non-whitespace fragments immediately
// adjacent to the match, so the emphasized span reads as the whole word it
// occurs in. All original whitespace and ordering is preserved.
//
// Terms are applied sequentially in slice order over the already-annotated
// text, so a later term whose match overlaps an earlier term's output wraps
// the marked span again. That compounding is deliberate; callers that need a
// stable term order should sort the slice first.
//
// Terms that do not occur leave the text unchanged; an empty term set
// returns the input as-is.
func Highlight(text string, terms []string) string {
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\S*` + regexp.QuoteMeta(term) + `\S*`)
		if err != nil {
			continue
		}
		text = re.ReplaceAllString(text, markOpen+"$0"+markClose)
	}
	return text
}
