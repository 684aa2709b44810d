// Package dom models the editable page markup: parsing snapshots and
// fragments, classifying which elements are edit-eligible, and producing the
// semantic copy of an element that is sent to the generation backend.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Target is the element chosen for a rewrite instruction. HTML carries the
// serialized markup with attributes, Tag the upper-cased tag name, Text the
// visible text content. A nil Target means the whole document.
type Target struct {
	HTML string `json:"html"`
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// hoverTags is the allow-list used while the cursor moves over the surface.
var hoverTags = map[string]bool{
	"div":     true,
	"section": true,
	"h1":      true,
	"h2":      true,
	"p":       true,
	"button":  true,
	"a":       true,
	"li":      true,
}

// clickTags extends hoverTags with the finer heading levels and inline spans,
// so a click can land on elements that are too small to hover usefully.
var clickTags = map[string]bool{
	"h3":   true,
	"h4":   true,
	"h5":   true,
	"h6":   true,
	"span": true,
}

// HoverEligible reports whether tag may receive a hover outline.
func HoverEligible(tag string) bool {
	return hoverTags[strings.ToLower(tag)]
}

// ClickEligible reports whether tag may be selected as an Edit Target.
func ClickEligible(tag string) bool {
	t := strings.ToLower(tag)
	return hoverTags[t] || clickTags[t]
}

// ParseFragment parses a markup fragment as body content and returns its
// first element node.
func ParseFragment(fragment string) (*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n, nil
		}
	}
	return nil, fmt.Errorf("parse fragment: no element in %q", fragment)
}

// Render serializes a node back to markup.
func Render(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("render node: %w", err)
	}
	return sb.String(), nil
}

// TextContent returns the concatenated visible text of n, trimmed.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// presentational attributes are stripped before an element is handed to the
// generation backend, so it sees semantic markup rather than hover styling.
func presentational(key string) bool {
	if key == "style" || key == "class" {
		return true
	}
	return strings.HasPrefix(key, "data-pf-")
}

// StripPresentational removes presentational attributes from n and all of
// its descendants in place.
func StripPresentational(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if !presentational(a.Key) {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		StripPresentational(c)
	}
}

// TargetFromHTML builds the Edit Target descriptor for a serialized element:
// a structural copy with presentational attributes stripped, its tag
// classification, and its visible text.
func TargetFromHTML(fragment string) (*Target, error) {
	n, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}
	StripPresentational(n)
	markup, err := Render(n)
	if err != nil {
		return nil, err
	}
	return &Target{
		HTML: markup,
		Tag:  strings.ToUpper(n.Data),
		Text: TextContent(n),
	}, nil
}
