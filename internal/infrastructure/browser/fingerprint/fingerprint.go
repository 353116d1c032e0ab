package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// AttrPrefixesToRemove drops attributes that change on focus, hover or
	// async validation without the step itself changing.
	AttrPrefixesToRemove []string
}

var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "link", "meta",
	},
	AttrsToRemove: []string{
		"style", "class", "tabindex", "value", "autocomplete",
	},
	AttrPrefixesToRemove: []string{"data-", "aria-", "on"},
}

// Of returns a stable digest of a form's markup. Two renderings of the same
// wizard step hash equal; moving to another step changes the digest.
func Of(rawHTML string) string {
	return OfWith(rawHTML, &DefaultConfig)
}

func OfWith(rawHTML string, cfg *Config) string {
	sum := sha256.Sum256([]byte(Clean(rawHTML, cfg)))
	return hex.EncodeToString(sum[:])
}

// Clean parses a fragment and renders it back without comments, noise tags,
// volatile attributes or insignificant whitespace.
func Clean(rawHTML string, cfg *Config) string {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), &html.Node{
		Type: html.ElementNode,
		Data: "div",
	})
	if err != nil {
		return strings.Join(strings.Fields(rawHTML), " ")
	}

	var sb strings.Builder
	for _, n := range nodes {
		cleanNode(n, cfg)
		if n.Type == html.CommentNode || (n.Type == html.ElementNode && isOneOf(n.Data, cfg.TagsToRemove...)) {
			continue
		}
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

func cleanNode(n *html.Node, cfg *Config) {
	switch n.Type {
	case html.TextNode:
		n.Data = strings.Join(strings.Fields(n.Data), " ")
		return
	case html.ElementNode:
		n.Attr = filterAttributes(n.Attr, cfg)
	default:
		return
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode || (c.Type == html.ElementNode && isOneOf(c.Data, cfg.TagsToRemove...)) {
			n.RemoveChild(c)
		} else {
			cleanNode(c, cfg)
			if c.Type == html.TextNode && c.Data == "" {
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *Config) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg *Config) bool {
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	for _, p := range cfg.AttrPrefixesToRemove {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
