package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/docscope/internal/models"
)

var (
	reScriptStyle = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	reHTMLTag     = regexp.MustCompile(`(?s)<[^>]*>`)
	reHTMLTitle   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	reMetaTag     = regexp.MustCompile(`(?is)<meta\s+[^>]*name=["']([^"']+)["'][^>]*content=["']([^"']*)["'][^>]*>`)
	reAnchor      = regexp.MustCompile(`(?i)<a\s`)
	reHeading     = regexp.MustCompile(`(?i)<h[1-6][\s>]`)
	reH1          = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	reWhitespace  = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)
)

// extractHTML strips markup to a plain-text body and records title, meta
// tags, and element counts.
func extractHTML(path string, raw []byte) (*Result, error) {
	content := string(raw)
	meta := models.Metadata{}
	res := &Result{Meta: meta}

	if m := reHTMLTitle.FindStringSubmatch(content); m != nil {
		title := strings.TrimSpace(stripTags(m[1]))
		if title != "" {
			res.Title = title
			meta.Set("html_title", title)
		}
	}
	if res.Title == "" {
		if m := reH1.FindStringSubmatch(content); m != nil {
			res.Title = strings.TrimSpace(stripTags(m[1]))
		}
	}
	for _, m := range reMetaTag.FindAllStringSubmatch(content, -1) {
		meta.Add("meta."+strings.ToLower(m[1]), m[2])
	}
	meta.Set("link_count", strconv.Itoa(len(reAnchor.FindAllString(content, -1))))
	meta.Set("heading_count", strconv.Itoa(len(reHeading.FindAllString(content, -1))))

	text := reScriptStyle.ReplaceAllString(content, " ")
	text = stripTags(text)
	text = htmlUnescape(text)
	text = reWhitespace.ReplaceAllString(text, "\n")
	res.Body = strings.TrimSpace(text)
	return res, nil
}

func stripTags(s string) string {
	return reHTMLTag.ReplaceAllString(s, " ")
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

func htmlUnescape(s string) string {
	return htmlEntities.Replace(s)
}
