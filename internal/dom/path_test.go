package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const surface = `
<div id="hero">
	<h1>Launch faster</h1>
	<p>Ship a landing page in <span>minutes</span></p>
	<button class="cta">Get started</button>
</div>
<section id="features">
	<ul><li>First</li><li>Second</li></ul>
</section>`

func TestElementAtPath(t *testing.T) {
	cases := []struct {
		path string
		tag  string
		text string
	}{
		{"0/0", "h1", "Launch faster"},
		{"0/1/0", "span", "minutes"},
		{"0/2", "button", "Get started"},
		{"1/0/1", "li", "Second"},
	}

	for _, tc := range cases {
		n, err := ElementAtPath(surface, tc.path)
		require.NoError(t, err, "path %s", tc.path)
		require.Equal(t, tc.tag, n.Data, "path %s", tc.path)
		require.Equal(t, tc.text, TextContent(n), "path %s", tc.path)
	}

	root, err := ElementAtPath(surface, "0")
	require.NoError(t, err)
	require.Equal(t, "div", root.Data)
}

func TestElementAtPathSkipsTextNodes(t *testing.T) {
	// Whitespace and text between elements must not shift indices.
	n, err := ElementAtPath("text <p>one</p> more text <p>two</p>", "1")
	require.NoError(t, err)
	require.Equal(t, "two", TextContent(n))
}

func TestElementAtPathErrors(t *testing.T) {
	_, err := ElementAtPath(surface, "9")
	require.Error(t, err)

	_, err = ElementAtPath(surface, "0/7")
	require.Error(t, err)

	_, err = ElementAtPath(surface, "0/x")
	require.Error(t, err)
}

func TestTargetFromPath(t *testing.T) {
	target, err := TargetFromPath(`<div><button class="cta" style="color:red" type="submit">Go</button></div>`, "0/0")
	require.NoError(t, err)
	require.Equal(t, "BUTTON", target.Tag)
	require.Equal(t, "Go", target.Text)
	require.Equal(t, `<button type="submit">Go</button>`, target.HTML)
}
