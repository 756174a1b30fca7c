package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store on every call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("CRUD", func(t *testing.T) { testCRUD(t, makeStore(t)) })
	t.Run("InsertionOrder", func(t *testing.T) { testInsertionOrder(t, makeStore(t)) })
	t.Run("ValuesAreCopied", func(t *testing.T) { testValuesAreCopied(t, makeStore(t)) })
	t.Run("RollbackOnError", func(t *testing.T) { testRollbackOnError(t, makeStore(t)) })
	t.Run("RollbackOnPanic", func(t *testing.T) { testRollbackOnPanic(t, makeStore(t)) })
	t.Run("ViewIsReadOnly", func(t *testing.T) { testViewIsReadOnly(t, makeStore(t)) })
	t.Run("CancelledContext", func(t *testing.T) { testCancelledContext(t, makeStore(t)) })
}

var errAbort = errors.New("abort")

func ts(sec int) time.Time { return time.Date(2024, 1, 1, 0, 0, sec, 0, time.UTC) }

func mustUpdate(t *testing.T, s store.Store, fn func(tx store.Tx) error) {
	t.Helper()
	if err := s.Update(context.Background(), fn); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func mustView(t *testing.T, s store.Store, fn func(tx store.Tx) error) {
	t.Helper()
	if err := s.View(context.Background(), fn); err != nil {
		t.Fatalf("View: %v", err)
	}
}

func testCRUD(t *testing.T, s store.Store) {
	c := model.Collection{ID: "c1", Name: "Marketing", CreatedAt: ts(1)}
	p := model.Prompt{ID: "p1", Title: "t", Content: "c", CollectionID: model.Ptr(c.ID), CreatedAt: ts(2), UpdatedAt: ts(2)}
	tag := model.Tag{ID: "t1", Name: "urgent", CreatedBy: "alice", CreatedAt: ts(3), UpdatedAt: ts(3)}
	pt := model.PromptTag{ID: "pt1", PromptID: p.ID, TagID: tag.ID, CreatedAt: ts(4)}
	v := model.PromptVersion{ID: "v1", PromptID: p.ID, VersionNumber: 1, Content: "old", CreatedAt: ts(5)}

	mustUpdate(t, s, func(tx store.Tx) error {
		if got := tx.Collections().Put(c); got.ID != c.ID {
			t.Fatalf("Put collection returned %+v", got)
		}
		tx.Prompts().Put(p)
		tx.Tags().Put(tag)
		tx.PromptTags().Put(pt)
		tx.Versions().Put(v)
		return nil
	})

	mustView(t, s, func(tx store.Tx) error {
		if got, ok := tx.Prompts().Get(p.ID); !ok || got.Title != "t" || got.CollectionID == nil || *got.CollectionID != c.ID {
			t.Fatalf("Get prompt: got=%+v ok=%v", got, ok)
		}
		if got, ok := tx.Tags().Get(tag.ID); !ok || got.Name != "urgent" {
			t.Fatalf("Get tag: got=%+v ok=%v", got, ok)
		}
		if got, ok := tx.PromptTags().Get(pt.ID); !ok || got.TagID != tag.ID {
			t.Fatalf("Get prompt tag: got=%+v ok=%v", got, ok)
		}
		if got, ok := tx.Versions().Get(v.ID); !ok || got.Content != "old" {
			t.Fatalf("Get version: got=%+v ok=%v", got, ok)
		}
		if _, ok := tx.Prompts().Get("missing"); ok {
			t.Fatalf("Get missing prompt: expected not found")
		}
		if n := tx.Collections().Len(); n != 1 {
			t.Fatalf("Len collections: %d", n)
		}
		return nil
	})

	mustUpdate(t, s, func(tx store.Tx) error {
		if !tx.PromptTags().Delete(pt.ID) {
			t.Fatalf("Delete prompt tag: expected existed")
		}
		if tx.PromptTags().Delete(pt.ID) {
			t.Fatalf("Delete prompt tag twice: expected not existed")
		}
		return nil
	})
	mustView(t, s, func(tx store.Tx) error {
		if lst := tx.PromptTags().List(); len(lst) != 0 {
			t.Fatalf("List prompt tags after delete: %v", lst)
		}
		return nil
	})
}

func testInsertionOrder(t *testing.T, s store.Store) {
	mustUpdate(t, s, func(tx store.Tx) error {
		for i, id := range []model.TagID{"b", "a", "c"} {
			tx.Tags().Put(model.Tag{ID: id, Name: string(id), CreatedAt: ts(i)})
		}
		return nil
	})
	// overwriting keeps the original position
	mustUpdate(t, s, func(tx store.Tx) error {
		tx.Tags().Put(model.Tag{ID: "b", Name: "renamed", CreatedAt: ts(0)})
		return nil
	})
	mustView(t, s, func(tx store.Tx) error {
		lst := tx.Tags().List()
		if len(lst) != 3 || lst[0].ID != "b" || lst[1].ID != "a" || lst[2].ID != "c" {
			t.Fatalf("List order: %+v", lst)
		}
		if lst[0].Name != "renamed" {
			t.Fatalf("overwrite not applied: %+v", lst[0])
		}
		return nil
	})
}

func testValuesAreCopied(t *testing.T, s store.Store) {
	desc := "original"
	p := model.Prompt{ID: "p1", Title: "t", Content: "c", Description: &desc, CreatedAt: ts(1), UpdatedAt: ts(1)}
	mustUpdate(t, s, func(tx store.Tx) error {
		tx.Prompts().Put(p)
		return nil
	})
	desc = "mutated by caller"

	mustView(t, s, func(tx store.Tx) error {
		got, _ := tx.Prompts().Get("p1")
		if got.Description == nil || *got.Description != "original" {
			t.Fatalf("stored value aliased caller memory: %+v", got.Description)
		}
		*got.Description = "mutated after read"
		return nil
	})
	mustView(t, s, func(tx store.Tx) error {
		got, _ := tx.Prompts().Get("p1")
		if *got.Description != "original" {
			t.Fatalf("read value aliased stored memory: %q", *got.Description)
		}
		return nil
	})
}

func seedPrompt(t *testing.T, s store.Store) {
	t.Helper()
	mustUpdate(t, s, func(tx store.Tx) error {
		tx.Prompts().Put(model.Prompt{ID: "p1", Title: "t", Content: "A", CreatedAt: ts(1), UpdatedAt: ts(1)})
		tx.Versions().Put(model.PromptVersion{ID: "v1", PromptID: "p1", VersionNumber: 1, Content: "0", CreatedAt: ts(1)})
		return nil
	})
}

func assertSeedIntact(t *testing.T, s store.Store) {
	t.Helper()
	mustView(t, s, func(tx store.Tx) error {
		got, ok := tx.Prompts().Get("p1")
		if !ok || got.Content != "A" {
			t.Fatalf("prompt not restored: got=%+v ok=%v", got, ok)
		}
		if _, ok := tx.Versions().Get("v1"); !ok {
			t.Fatalf("deleted version not restored")
		}
		if _, ok := tx.Prompts().Get("p2"); ok {
			t.Fatalf("inserted prompt not rolled back")
		}
		if n := tx.Versions().Len(); n != 1 {
			t.Fatalf("versions after rollback: %d", n)
		}
		return nil
	})
}

func testRollbackOnError(t *testing.T, s store.Store) {
	seedPrompt(t, s)
	err := s.Update(context.Background(), func(tx store.Tx) error {
		tx.Prompts().Put(model.Prompt{ID: "p1", Title: "t", Content: "B", CreatedAt: ts(1), UpdatedAt: ts(2)})
		tx.Prompts().Put(model.Prompt{ID: "p2", Title: "t", Content: "new", CreatedAt: ts(2), UpdatedAt: ts(2)})
		tx.Versions().Delete("v1")
		tx.Versions().Put(model.PromptVersion{ID: "v2", PromptID: "p1", VersionNumber: 2, CreatedAt: ts(2)})
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Update error: %v", err)
	}
	assertSeedIntact(t, s)
}

func testRollbackOnPanic(t *testing.T, s store.Store) {
	seedPrompt(t, s)
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = s.Update(context.Background(), func(tx store.Tx) error {
			tx.Prompts().Put(model.Prompt{ID: "p2", Title: "t", Content: "new", CreatedAt: ts(2), UpdatedAt: ts(2)})
			tx.Versions().Delete("v1")
			panic("boom")
		})
	}()
	assertSeedIntact(t, s)

	// the lock must have been released
	mustUpdate(t, s, func(tx store.Tx) error { return nil })
}

func testViewIsReadOnly(t *testing.T, s store.Store) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected write inside View to panic")
		}
		mustView(t, s, func(tx store.Tx) error {
			if n := tx.Tags().Len(); n != 0 {
				t.Fatalf("write inside View was applied")
			}
			return nil
		})
	}()
	_ = s.View(context.Background(), func(tx store.Tx) error {
		tx.Tags().Put(model.Tag{ID: "t1", Name: "x"})
		return nil
	})
}

func testCancelledContext(t *testing.T, s store.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	if err := s.Update(ctx, func(tx store.Tx) error { called = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("Update with cancelled context: %v", err)
	}
	if err := s.View(ctx, func(tx store.Tx) error { called = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("View with cancelled context: %v", err)
	}
	if called {
		t.Fatalf("fn ran despite cancelled context")
	}
}
