package surface

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterpretFocused(t *testing.T) {
	k, err := NewKeymap(DefaultBindings())
	require.NoError(t, err)

	cases := []struct {
		ev   KeyEvent
		want Action
	}{
		{KeyEvent{Key: "Escape", Focused: true}, ActionClose},
		{KeyEvent{Key: "Enter", Focused: true}, ActionCommit},
		{KeyEvent{Key: "a", Focused: true}, ActionInput},
		// Chords typed inside the input are just input; global shortcuts
		// only apply when the command input lacks focus.
		{KeyEvent{Key: "z", Mod: true, Focused: true}, ActionInput},
		{KeyEvent{Key: "/", Focused: true}, ActionInput},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, k.Interpret(tc.ev), "event %+v", tc.ev)
	}
}

func TestInterpretGlobal(t *testing.T) {
	k, err := NewKeymap(DefaultBindings())
	require.NoError(t, err)

	cases := []struct {
		ev   KeyEvent
		want Action
	}{
		{KeyEvent{Key: "/"}, ActionOpen},
		{KeyEvent{Key: "Escape"}, ActionClose},
		{KeyEvent{Key: "z", Mod: true}, ActionUndo},
		{KeyEvent{Key: "Z", Mod: true, Shift: true}, ActionRedo},
		{KeyEvent{Key: "z"}, ActionNone},
		{KeyEvent{Key: "x", Mod: true}, ActionNone},
		{KeyEvent{Key: "a"}, ActionNone},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, k.Interpret(tc.ev), "event %+v", tc.ev)
	}
}

func TestCustomBindings(t *testing.T) {
	k, err := NewKeymap(Bindings{Open: "mod+k", Undo: "mod+u", Redo: "mod+shift+u"})
	require.NoError(t, err)

	require.Equal(t, ActionOpen, k.Interpret(KeyEvent{Key: "k", Mod: true}))
	require.Equal(t, ActionUndo, k.Interpret(KeyEvent{Key: "u", Mod: true}))
	require.Equal(t, ActionRedo, k.Interpret(KeyEvent{Key: "u", Mod: true, Shift: true}))
	require.Equal(t, ActionNone, k.Interpret(KeyEvent{Key: "/"}))
}

func TestPartialBindingsFallBack(t *testing.T) {
	k, err := NewKeymap(Bindings{Open: "mod+k"})
	require.NoError(t, err)
	require.Equal(t, ActionUndo, k.Interpret(KeyEvent{Key: "z", Mod: true}))
}

func TestInvalidChords(t *testing.T) {
	_, err := NewKeymap(Bindings{Open: "mod+"})
	require.Error(t, err)

	_, err = NewKeymap(Bindings{Undo: "z+mod"})
	require.Error(t, err)
}

func TestOverlayHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "type to begin")
	require.True(t, strings.Contains(string(body), "pf-submit"))
}
