package target

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pageforge/internal/dom"
)

func heroLayout() Layout {
	return Layout{
		Surface: Rect{X: 0, Y: 0, W: 800, H: 600},
		Boxes: []Box{
			{Path: "0", Tag: "DIV", Depth: 0, Rect: Rect{X: 0, Y: 0, W: 800, H: 600}},
			{Path: "0/0", Tag: "H1", Depth: 1, Rect: Rect{X: 100, Y: 40, W: 600, H: 60}},
			{Path: "0/1", Tag: "P", Depth: 1, Rect: Rect{X: 100, Y: 120, W: 600, H: 40}},
			{Path: "0/2", Tag: "BUTTON", Depth: 1, Rect: Rect{X: 100, Y: 200, W: 120, H: 40}},
			{Path: "0/1/0", Tag: "SPAN", Depth: 2, Rect: Rect{X: 100, Y: 120, W: 200, H: 40}},
			{Path: "0/3", Tag: "IMG", Depth: 1, Rect: Rect{X: 500, Y: 200, W: 200, H: 200}},
		},
	}
}

func TestResolveOutsideSurface(t *testing.T) {
	r := NewResolver()
	r.SetLayout(heroLayout())

	for _, pt := range [][2]float64{{-1, 10}, {10, -1}, {800, 10}, {10, 600}, {2000, 2000}} {
		_, ok := r.Resolve(pt[0], pt[1], dom.HoverEligible)
		require.False(t, ok, "point %v should resolve to none", pt)
	}
}

func TestResolveBeforeLayoutReport(t *testing.T) {
	r := NewResolver()
	_, ok := r.Resolve(10, 10, dom.HoverEligible)
	require.False(t, ok)
}

func TestResolvePrefersDeepest(t *testing.T) {
	r := NewResolver()
	r.SetLayout(heroLayout())

	// The heading sits inside the container; the heading wins.
	box, ok := r.Resolve(150, 50, dom.HoverEligible)
	require.True(t, ok)
	require.Equal(t, "H1", box.Tag)
	require.Equal(t, "0/0", box.Path)

	// Only the container covers the gap between blocks.
	box, ok = r.Resolve(50, 500, dom.HoverEligible)
	require.True(t, ok)
	require.Equal(t, "DIV", box.Tag)
}

func TestResolveAllowListWidensOnClick(t *testing.T) {
	r := NewResolver()
	r.SetLayout(heroLayout())

	// Hover skips the span and lands on the enclosing paragraph.
	box, ok := r.Resolve(150, 130, dom.HoverEligible)
	require.True(t, ok)
	require.Equal(t, "P", box.Tag)

	// Click may select the span itself.
	box, ok = r.Resolve(150, 130, dom.ClickEligible)
	require.True(t, ok)
	require.Equal(t, "SPAN", box.Tag)
}

func TestResolveIgnoresIneligibleTags(t *testing.T) {
	r := NewResolver()
	r.SetLayout(heroLayout())

	// The img is the deepest box at this point but never eligible; the
	// surrounding container is returned instead.
	box, ok := r.Resolve(600, 300, dom.ClickEligible)
	require.True(t, ok)
	require.Equal(t, "DIV", box.Tag)
}

func TestResolveSmallestAreaBreaksDepthTies(t *testing.T) {
	r := NewResolver()
	r.SetLayout(Layout{
		Surface: Rect{W: 100, H: 100},
		Boxes: []Box{
			{Path: "0", Tag: "DIV", Depth: 0, Rect: Rect{W: 100, H: 100}},
			{Path: "1", Tag: "P", Depth: 0, Rect: Rect{X: 10, Y: 10, W: 20, H: 20}},
		},
	})

	box, ok := r.Resolve(15, 15, dom.HoverEligible)
	require.True(t, ok)
	require.Equal(t, "P", box.Tag)
}
