package pagebuilder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/pagebuilder/builder"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_pagebuilder.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		s.Close()
	}

	return s, cleanup
}

func TestNewStore(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestCreateAndGetTemplate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.CreateTemplate(ctx, "  <b>Landing</b> page ")
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want > 0", id)
	}

	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	want := builder.Template{ID: id, Kind: builder.KindTemplate, Title: "Landing page", Status: builder.StatusPublished}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetTemplate mismatch (-want +got):\n%s", diff)
	}
	if !got.Usable() {
		t.Error("new template should be usable")
	}
}

func TestCreateTemplateRejectsDuplicateAndEmptyTitles(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := s.CreateTemplate(ctx, "Home"); err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if _, err := s.CreateTemplate(ctx, "<i>Home</i>"); !errors.Is(err, builder.ErrDuplicateTitle) {
		t.Errorf("duplicate title: err = %v, want ErrDuplicateTitle", err)
	}
	if _, err := s.CreateTemplate(ctx, "<script></script>  "); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("empty title: err = %v, want ErrTitleRequired", err)
	}
}

func TestDuplicateCheckIncludesTrashedTemplates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.CreateTemplate(ctx, "Old")
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if err := s.DeleteTemplate(ctx, id, false); err != nil {
		t.Fatalf("soft DeleteTemplate failed: %v", err)
	}
	if _, err := s.CreateTemplate(ctx, "Old"); !errors.Is(err, builder.ErrDuplicateTitle) {
		t.Errorf("err = %v, want ErrDuplicateTitle", err)
	}
}

func TestGetTemplateNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetTemplate(context.Background(), 999)
	if !errors.Is(err, builder.ErrNotFound) {
		t.Errorf("expected builder.ErrNotFound, got %v", err)
	}
}

func TestGetTemplateOfOtherKind(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := s.CreateEntry(ctx, "post", "A post", builder.StatusPublished)
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if got.Usable() {
		t.Errorf("entry of kind %q should not be usable", got.Kind)
	}
}

func TestRenameTemplate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, _ := s.CreateTemplate(ctx, "Before")
	if err := s.RenameTemplate(ctx, id, "<em>After</em>"); err != nil {
		t.Fatalf("RenameTemplate failed: %v", err)
	}
	got, _ := s.GetTemplate(ctx, id)
	if got.Title != "After" {
		t.Errorf("Title = %q, want %q", got.Title, "After")
	}

	if err := s.RenameTemplate(ctx, id, "   "); err != nil {
		t.Fatalf("RenameTemplate failed: %v", err)
	}
	got, _ = s.GetTemplate(ctx, id)
	if got.Title != "After" {
		t.Errorf("blank rename changed title to %q", got.Title)
	}
}

func TestListTemplates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, title := range []string{"Zeta", "Alpha", "Mid"} {
		if _, err := s.CreateTemplate(ctx, title); err != nil {
			t.Fatalf("CreateTemplate(%q) failed: %v", title, err)
		}
	}
	trashed, _ := s.CreateTemplate(ctx, "Gone")
	if err := s.DeleteTemplate(ctx, trashed, false); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := s.CreateEntry(ctx, "post", "Beta", builder.StatusPublished); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	templates, err := s.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	var titles []string
	for _, tpl := range templates {
		titles = append(titles, tpl.Title)
	}
	if diff := cmp.Diff([]string{"Alpha", "Mid", "Zeta"}, titles); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaKeepsInsertionOrderOnUpdate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	meta := s.Blocks()

	id, _ := s.CreateTemplate(ctx, "Home")
	for _, key := range []string{"block_2", "block_1", "_edit_lock"} {
		if err := meta.Set(ctx, id, key, []byte(key)); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}
	if err := meta.Set(ctx, id, "block_2", []byte("updated")); err != nil {
		t.Fatalf("Set update failed: %v", err)
	}

	all, err := meta.GetAll(ctx, id)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	want := []builder.Meta{
		{Key: "block_2", Value: []byte("updated")},
		{Key: "block_1", Value: []byte("block_1")},
		{Key: "_edit_lock", Value: []byte("_edit_lock")},
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}

	value, ok, err := meta.Get(ctx, id, "block_1")
	if err != nil || !ok || string(value) != "block_1" {
		t.Errorf("Get(block_1) = %q, %v, %v", value, ok, err)
	}
	if _, ok, err := meta.Get(ctx, id, "block_9"); err != nil || ok {
		t.Errorf("Get(block_9) = ok %v, err %v; want missing", ok, err)
	}

	if err := meta.Delete(ctx, id, "block_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := meta.Get(ctx, id, "block_1"); ok {
		t.Error("block_1 should be gone")
	}
}

func TestMetaIsPerEntry(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	meta := s.Blocks()

	a, _ := s.CreateTemplate(ctx, "A")
	b, _ := s.CreateTemplate(ctx, "B")
	if err := meta.Set(ctx, a, "block_1", []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	all, err := meta.GetAll(ctx, b)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("template B has %d meta rows, want 0", len(all))
	}
}

func TestHardDeleteRemovesMeta(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	meta := s.Blocks()

	id, _ := s.CreateTemplate(ctx, "Doomed")
	if err := meta.Set(ctx, id, "block_1", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.DeleteTemplate(ctx, id, true); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := s.GetTemplate(ctx, id); !errors.Is(err, builder.ErrNotFound) {
		t.Errorf("GetTemplate after delete: err = %v, want ErrNotFound", err)
	}
	all, err := meta.GetAll(ctx, id)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("%d meta rows survived a hard delete", len(all))
	}
}

func TestSoftDeleteTrashesTemplate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, _ := s.CreateTemplate(ctx, "Trash me")
	if err := s.DeleteTemplate(ctx, id, false); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if got.Status != "trash" || got.Usable() {
		t.Errorf("got status %q usable %v, want trash and unusable", got.Status, got.Usable())
	}
}
