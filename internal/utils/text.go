package utils

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'")
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting markup,
// links and redundant whitespace.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := entityReplacer.Replace(htmlTagPattern.ReplaceAllString(string(output), ""))
	return strings.Join(strings.Fields(plainText), " ")
}
