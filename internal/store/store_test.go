package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestParagraphRoundTrip(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(0, 0)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	ctx := context.Background()
	first, err := st.AddParagraph(ctx, "Rivers", "Rivers carve   valleys\nover many years.", "Custom")
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, err := st.AddParagraph(ctx, "", "one two three four five six seven", "")
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	got, err := st.GetParagraph(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Rivers" || got.Text != "Rivers carve valleys over many years." {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !got.AddedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected added at %v", got.AddedAt)
	}

	list, err := st.ListParagraphs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != first || list[1].ID != second {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[1].Title != "one two three four five..." {
		t.Fatalf("unexpected default title %q", list[1].Title)
	}

	if err := st.DeleteParagraph(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetParagraph(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteParagraph(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAddParagraphRejectsEmptyText(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.AddParagraph(context.Background(), "blank", "  \n ", ""); err == nil {
		t.Fatalf("expected empty text to be rejected")
	}
}

func TestReopenKeepsParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.AddParagraph(context.Background(), "Kept", "This paragraph survives a reopen.", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	list, err := st.ListParagraphs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Kept" {
		t.Fatalf("unexpected list after reopen %+v", list)
	}
}
