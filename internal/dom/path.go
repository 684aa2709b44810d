package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ElementAtPath finds an element inside the surface markup by its node path:
// element-child indices from the surface root joined by '/'. The same paths
// key the geometry report, so a resolved box maps back to markup here.
func ElementAtPath(surfaceHTML, path string) (*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(surfaceHTML), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse surface: %w", err)
	}

	var current *html.Node
	for i, seg := range strings.Split(path, "/") {
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("path %q: bad segment %q", path, seg)
		}

		var candidates []*html.Node
		if i == 0 {
			for _, n := range nodes {
				if n.Type == html.ElementNode {
					candidates = append(candidates, n)
				}
			}
		} else {
			for c := current.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode {
					candidates = append(candidates, c)
				}
			}
		}

		if idx < 0 || idx >= len(candidates) {
			return nil, fmt.Errorf("path %q: index %d out of range", path, idx)
		}
		current = candidates[idx]
	}

	if current == nil {
		return nil, fmt.Errorf("empty path")
	}
	return current, nil
}

// TargetFromPath builds the Edit Target for the element addressed by path
// within the surface markup.
func TargetFromPath(surfaceHTML, path string) (*Target, error) {
	n, err := ElementAtPath(surfaceHTML, path)
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
