package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/docscope/internal/models"
)

var (
	reHeader  = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	reLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reImage   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	reH1Title = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// extractMarkdown pulls headers, links, images, and YAML front matter.
// The front matter block is stripped from the body; a front-matter title
// wins over the first H1.
func extractMarkdown(path string, raw []byte) (*Result, error) {
	content := string(raw)
	meta := models.Metadata{}
	res := &Result{Meta: meta}

	body, fm, err := splitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if fm != nil {
		applyFrontMatter(res, fm)
	}

	for _, m := range reHeader.FindAllStringSubmatch(body, -1) {
		meta.Add("headers", strings.TrimSpace(m[2]))
		meta.Add("header_levels", strconv.Itoa(len(m[1])))
	}
	for _, m := range reLink.FindAllStringSubmatch(body, -1) {
		meta.Add("links", m[2])
	}
	for _, m := range reImage.FindAllStringSubmatch(body, -1) {
		meta.Add("images", m[2])
	}

	if res.Title == "" {
		if m := reH1Title.FindStringSubmatch(body); m != nil {
			res.Title = strings.TrimSpace(m[1])
		}
	}
	res.Body = body
	return res, nil
}

// splitFrontMatter returns the body without the front-matter block, and the
// decoded front matter when the content starts with a "---" fence.
func splitFrontMatter(content string) (string, map[string]interface{}, error) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return content, nil, nil
	}
	rest := content[strings.Index(content, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return content, nil, nil
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")

	var fm map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return "", nil, err
	}
	return body, fm, nil
}

func applyFrontMatter(res *Result, fm map[string]interface{}) {
	for key, value := range fm {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				res.Title = s
			}
		case "category":
			if s, ok := value.(string); ok {
				res.Category = s
			}
		case "tags":
			res.Tags = toStringList(value)
		}
		for _, v := range toStringList(value) {
			res.Meta.Add("frontmatter."+key, v)
		}
	}
}

func toStringList(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
