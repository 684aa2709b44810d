package session

import (
	"context"
	"errors"
	"log"

	"pageforge/internal/store"
)

// FetchLatest initializes the version cursor from the store's latest version
// for the page. It runs once, asynchronously, after mount; by the time it
// resolves an edit may already have set the cursor, in which case the result
// is discarded. A page with no history is not an error.
func (c *Controller) FetchLatest(ctx context.Context) error {
	v, err := c.versions.Latest(ctx, c.pageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("session %s: fetch latest version: %v", c.pageID, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == "" {
		c.cursor = v.ID
	}
	return nil
}

// Undo navigates to the parent of the current version. Without a cursor it
// is a no-op that issues no request. A store miss (no parent exists) leaves
// snapshot and cursor unchanged; only the loading state ends.
func (c *Controller) Undo(ctx context.Context) error {
	return c.navigate(ctx, OpUndo)
}

// Redo navigates to the child of the current version, with the same edge
// behavior as Undo.
func (c *Controller) Redo(ctx context.Context) error {
	return c.navigate(ctx, OpRedo)
}

func (c *Controller) navigate(ctx context.Context, op Op) error {
	c.mu.Lock()
	if c.inflight != opNone {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.cursor == "" {
		c.mu.Unlock()
		return nil
	}
	cursor := c.cursor
	c.beginOp(op)
	c.mu.Unlock()

	var v *store.Version
	var err error
	if op == OpUndo {
		v, err = c.versions.Parent(ctx, cursor)
	} else {
		v, err = c.versions.Child(ctx, cursor)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endOp()

	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("session %s: %s: %v", c.pageID, op, err)
		return err
	}

	c.applyVersion(v.ID, v.HTML)
	return nil
}
