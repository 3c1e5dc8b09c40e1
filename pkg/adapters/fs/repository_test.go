package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/plumekit/plume/pkg/adapters/fs"
	"github.com/plumekit/plume/pkg/core"
)

// setupRepo helps create a repository for testing.
// It returns the repository and the root path of the vault.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	tmpDir := t.TempDir()
	vaultPath := filepath.Join(tmpDir, "vault")

	cfg := fs.Config{
		Path:      vaultPath,
		AutoInit:  true,
		Gitless:   true, // Default to gitless for simplicity unless overridden
		MustExist: false,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)

	return repo, vaultPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		repo, path := setupRepo(t)

		err := repo.Initialize(context.Background())
		if err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.MustExist = true
			c.AutoInit = false
		})

		if err := repo.Initialize(context.Background()); err == nil {
			t.Fatal("expected error for missing vault path")
		}
	})
}

func TestSaveAndGet(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	p := core.Post{
		ID:      "2020-01-01-first-post",
		Content: "Hello\n",
		Metadata: core.Metadata{
			"title": "First Post",
			"tags":  []any{"go", "blogging"},
		},
	}

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// File lands as {ID}.md
	if _, err := os.Stat(filepath.Join(path, "2020-01-01-first-post.md")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	got, err := repo.Get(ctx, "2020-01-01-first-post")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "Hello\n" {
		t.Errorf("content mismatch: %q", got.Content)
	}
	if got.Metadata["title"] != "First Post" {
		t.Errorf("title mismatch: %v", got.Metadata["title"])
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	_, err := repo.Get(ctx, "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSave_UnmodifiedRoundTrip(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	// Write a file with deliberately non-canonical front matter by hand.
	raw := "---\ntitle:  \"Odd   Spacing\"\ndate: 2021-06-02\n---\nbody\n"
	file := filepath.Join(path, "hand-authored.md")
	if err := os.WriteFile(file, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := repo.Get(ctx, "hand-authored")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Save without touching the metadata: the file must not churn.
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	after, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != raw {
		t.Errorf("unmodified save must be byte-identical.\nwant %q\ngot  %q", raw, after)
	}
}

func TestSave_BodyEditKeepsFrontMatter(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	header := "---\ntitle: \"X\"\ndate: 2020-01-01\ntags: [a, b]\n---\n"
	file := filepath.Join(path, "2020-01-01-x.md")
	if err := os.WriteFile(file, []byte(header+"Hello\n"), 0644); err != nil {
		t.Fatal(err)
	}

	service := core.NewService(repo)

	post, err := service.GetPost(ctx, "2020-01-01-x")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}

	// A body-only edit must leave the authored header bytes alone: no key
	// reordering, no quote stripping, no timestamp inflation.
	post.Content = "Goodbye\n"
	if err := service.Save(ctx, post); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	after, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != header+"Goodbye\n" {
		t.Errorf("body edit churned the front matter.\nwant %q\ngot  %q", header+"Goodbye\n", after)
	}
}

func TestList(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	posts := []core.Post{
		{ID: "2020-01-01-a", Content: "A", Metadata: core.Metadata{"title": "A"}},
		{ID: "drafts/2020-02-02-b", Content: "B", Metadata: core.Metadata{"title": "B", "draft": true}},
	}
	for _, p := range posts {
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	// A file the walker must skip
	if err := os.WriteFile(filepath.Join(path, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(listed))
	}

	// Second List hits the index cache; results must agree on IDs and titles.
	again, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("second List failed: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("expected 2 posts from cache, got %d", len(again))
	}

	byID := make(map[string]core.Post)
	for _, p := range again {
		byID[p.ID] = p
	}
	if byID["2020-01-01-a"].Metadata["title"] != "A" {
		t.Errorf("cached title mismatch for 2020-01-01-a")
	}
	if byID["drafts/2020-02-02-b"].Metadata["draft"] != true {
		t.Errorf("cached draft flag lost for drafts/2020-02-02-b")
	}
}

func TestDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	p := core.Post{ID: "gone", Content: "bye"}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(path, "gone.md")); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed")
	}

	if err := repo.Delete(ctx, "gone"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadOnly(t *testing.T) {
	tmpDir := t.TempDir()
	seed := fs.NewRepository(fs.Config{Path: tmpDir, Gitless: true})
	ctx := context.Background()
	_ = seed.Initialize(ctx)
	if err := seed.Save(ctx, core.Post{ID: "existing", Content: "x"}); err != nil {
		t.Fatal(err)
	}

	repo := fs.NewRepository(fs.Config{Path: tmpDir, Gitless: true, ReadOnly: true})
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("read-only Initialize failed: %v", err)
	}

	if err := repo.Save(ctx, core.Post{ID: "nope", Content: "x"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Save: expected ErrReadOnly, got %v", err)
	}
	if err := repo.Delete(ctx, "existing"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Delete: expected ErrReadOnly, got %v", err)
	}
	if _, err := repo.Begin(ctx); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("Begin: expected ErrReadOnly, got %v", err)
	}

	// Reads still work.
	if _, err := repo.Get(ctx, "existing"); err != nil {
		t.Errorf("Get should work in read-only mode: %v", err)
	}
	if _, err := repo.List(ctx); err != nil {
		t.Errorf("List should work in read-only mode: %v", err)
	}
}

func TestSave_NestedDirectories(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	_ = repo.Initialize(ctx)

	p := core.Post{ID: "2021/06/nested-post", Content: "deep"}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(path, "2021", "06", "nested-post.md")); err != nil {
		t.Fatalf("expected nested file: %v", err)
	}

	got, err := repo.Get(ctx, "2021/06/nested-post")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "deep" {
		t.Errorf("content mismatch: %q", got.Content)
	}
}
