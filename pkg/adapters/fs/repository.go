package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/plumekit/plume/pkg/core"
	"github.com/plumekit/plume/pkg/git"
)

// supportedExtensions lists the file extensions the repository manages.
var supportedExtensions = map[string]bool{
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Repository implements core.Repository using the filesystem and,
// optionally, git.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Strict       bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".plume"
	EventBuffer  int    // Watch channel buffer size. Zero means 100.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".plume"
	}
	return &Repository{
		Path:        config.Path,
		git:         git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: DefaultSerializers(config.Strict),
	}
}

// RegisterSerializer installs or replaces the serializer for an extension.
func (r *Repository) RegisterSerializer(ext string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[ext] = s
}

func (r *Repository) serializerFor(ext string) Serializer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.serializers[ext]; ok {
		return s
	}
	return r.serializers[".md"]
}

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(r), nil
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
		return nil
	}

	// 1. Directory Initialization
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	// 2. Git Initialization
	if !r.config.Gitless {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}

		wasNewRepo := false
		if !r.git.IsRepo() {
			if r.config.AutoInit {
				if err := r.git.Init(); err != nil {
					return fmt.Errorf("failed to git init: %w", err)
				}
				wasNewRepo = true
			} else {
				return fmt.Errorf("path is not a git repository: %s", r.Path)
			}
		}

		// Ensure .gitignore has the system directory
		mod, err := r.ensureIgnore()
		if err != nil {
			return fmt.Errorf("failed to ensure .gitignore: %w", err)
		}

		if mod && wasNewRepo {
			// If we just created the repo, commit the .gitignore to start clean
			if err := r.git.Add(".gitignore"); err != nil {
				return fmt.Errorf("failed to add .gitignore: %w", err)
			}
			if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
				return fmt.Errorf("failed to commit .gitignore: %w", err)
			}
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}

	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	if !r.git.HasRemote() {
		return fmt.Errorf("remote 'origin' not configured")
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

// filenameFor resolves the on-disk filename and extension for a post ID.
// IDs without an extension map to .md files.
func filenameFor(id string) (filename, ext string) {
	ext = filepath.Ext(id)
	if _, ok := supportedExtensions[ext]; !ok {
		ext = ""
	}
	filename = id
	if ext == "" {
		ext = ".md"
		filename = id + ext
	}
	return filename, ext
}

// Save persists a post to the filesystem and commits it to git.
//
// Workflow:
//  1. Validate ID and resolve the extension (default .md).
//  2. Create parent directories.
//  3. Serialize (front matter + body) and write atomically to disk.
//  4. (If git enabled) 'git add' and 'git commit' with context metadata.
func (r *Repository) Save(ctx context.Context, p core.Post) error {
	if p.ID == "" {
		return core.ErrNoID
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename, ext := filenameFor(p.ID)
	fullPath := filepath.Join(r.Path, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := r.serializerFor(ext).Serialize(p)
	if err != nil {
		return fmt.Errorf("failed to serialize post: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !r.config.Gitless {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Add(filename); err != nil {
			return fmt.Errorf("failed to git add: %w", err)
		}

		msg := "update " + p.ID
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	return nil
}

// Get retrieves a post from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Post, error) {
	if id == "" {
		return core.Post{}, core.ErrNoID
	}

	filename, ext := filenameFor(id)
	fullPath := filepath.Join(r.Path, filename)

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Post{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Post{}, err
	}
	defer f.Close()

	p, err := r.serializerFor(ext).Parse(f)
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to parse post %s: %w", id, err)
	}
	p.ID = id

	return *p, nil
}

// List scans the directory for all posts.
//
// Strategy:
//  1. Load the metadata index from disk.
//  2. Walk the directory tree (skipping .git and the system dir).
//  3. For each supported file:
//     a. Cache hit (mtime match): use the indexed front matter, skip the read.
//     b. Cache miss: full parse, update the index.
//  4. Prune stale entries and save the index back to disk.
func (r *Repository) List(ctx context.Context) ([]core.Post, error) {
	var posts []core.Post

	if err := r.cache.Load(); err != nil {
		if r.config.Logger != nil {
			r.config.Logger.Warn("failed to load index cache", "error", err)
		}
	}
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == r.config.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(d.Name())
		if !supportedExtensions[ext] {
			return nil
		}
		if strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		// IDs strip the .md extension; other formats keep theirs so that
		// List output is always valid Get input.
		id := relPath
		if ext == ".md" {
			id = relPath[:len(relPath)-3]
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			posts = append(posts, postFromEntry(entry))
			return nil
		}

		// Cache miss
		p, err := r.Get(ctx, id)
		if err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to parse post during list", "id", id, "error", err)
			}
			return nil // Continue walking
		}

		r.cache.Set(relPath, entryFromPost(id, p, mtime))

		posts = append(posts, p)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk vault dir: %w", err)
	}

	r.cache.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to save index cache", "error", err)
			}
		}
	}

	return posts, nil
}

// postFromEntry builds a skeletal Post from an index entry. On cache hit the
// file body is deliberately not read; List is for metadata discovery.
func postFromEntry(entry *indexEntry) core.Post {
	meta := core.Metadata{}
	if entry.Title != "" {
		meta["title"] = entry.Title
	}
	if len(entry.Tags) > 0 {
		tags := make([]any, len(entry.Tags))
		for i, t := range entry.Tags {
			tags[i] = t
		}
		meta["tags"] = tags
	}
	if entry.Draft {
		meta["draft"] = true
	}
	return core.Post{ID: entry.ID, Metadata: meta}
}

// entryFromPost extracts the indexed subset of a post's front matter.
func entryFromPost(id string, p core.Post, mtime time.Time) *indexEntry {
	entry := &indexEntry{
		ID:           id,
		LastModified: mtime,
	}

	if t, ok := p.Metadata["title"].(string); ok {
		entry.Title = t
	}
	if d, ok := p.Metadata["draft"].(bool); ok {
		entry.Draft = d
	}
	switch tags := p.Metadata["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok {
				entry.Tags = append(entry.Tags, s)
			}
		}
	case []string:
		entry.Tags = append(entry.Tags, tags...)
	}

	return entry
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrNoID
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename, _ := filenameFor(id)
	fullPath := filepath.Join(r.Path, filename)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	r.cache.Delete(filepath.ToSlash(filename))

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(filename); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}

	msg := "delete " + id
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

// Reconcile re-scans the vault against the index and returns the events
// describing what changed on disk behind the watcher's back (e.g. during a
// git operation). The index is updated in the process.
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	var events []core.Event
	seen := make(map[string]bool)
	now := time.Now().Unix()

	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == r.config.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(d.Name())
		if !supportedExtensions[ext] || strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		seen[relPath] = true

		id := relPath
		if ext == ".md" {
			id = relPath[:len(relPath)-3]
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		if _, hit := r.cache.Get(relPath, mtime); hit {
			return nil
		}

		eType := core.EventModify
		if !r.cache.has(relPath) {
			eType = core.EventCreate
		}

		p, err := r.Get(ctx, id)
		if err != nil {
			return nil
		}
		r.cache.Set(relPath, entryFromPost(id, p, mtime))

		events = append(events, core.Event{Type: eType, ID: id, Timestamp: now})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Entries that disappeared from disk.
	var gone []string
	r.cache.index.mu.RLock()
	for relPath, entry := range r.cache.index.Entries {
		if !seen[relPath] {
			gone = append(gone, relPath)
			events = append(events, core.Event{Type: core.EventDelete, ID: entry.ID, Timestamp: now})
		}
	}
	r.cache.index.mu.RUnlock()
	for _, relPath := range gone {
		r.cache.Delete(relPath)
	}

	if !r.config.ReadOnly {
		_ = r.cache.Save()
	}

	r.recordReconcile()
	return events, nil
}

// Watch observes the vault for changes matching the glob pattern.
// The returned channel is closed once ctx is cancelled and the worker has
// drained its in-flight events.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	buffer := r.config.EventBuffer
	if buffer <= 0 {
		buffer = 100
	}
	events := make(chan core.Event, buffer)

	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = w.Stop(stopCtx)
		close(events)
	}()

	return events, nil
}

// recursiveAdd registers the vault directory tree with the fsnotify watcher.
func (r *Repository) recursiveAdd(watcher interface{ Add(string) error }) error {
	return filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == r.config.SystemDir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldIgnore filters filesystem events down to relevant post changes.
func (r *Repository) shouldIgnore(name, pattern string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return true
	}

	relPath, err := filepath.Rel(r.Path, name)
	if err != nil {
		return true
	}
	relPath = filepath.ToSlash(relPath)

	for _, part := range strings.Split(relPath, "/") {
		if part == ".git" || part == r.config.SystemDir {
			return true
		}
	}

	if !supportedExtensions[filepath.Ext(base)] {
		return true
	}

	if pattern != "" && !matchPattern(pattern, relPath) {
		return true
	}

	return false
}

// resolveID converts an absolute event path into a post ID.
func (r *Repository) resolveID(name string) (string, error) {
	relPath, err := filepath.Rel(r.Path, name)
	if err != nil {
		return "", err
	}
	relPath = filepath.ToSlash(relPath)
	if strings.HasSuffix(relPath, ".md") {
		relPath = relPath[:len(relPath)-3]
	}
	return relPath, nil
}

// has reports whether a relative path is present in the index, regardless of
// freshness.
func (c *cache) has(relPath string) bool {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	_, ok := c.index.Entries[relPath]
	return ok
}

// matchPattern reports whether relPath matches the doublestar glob pattern.
// A malformed pattern matches nothing.
func matchPattern(pattern, relPath string) bool {
	ok, err := doublestar.Match(pattern, relPath)
	return err == nil && ok
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

var _ core.Repository = (*Repository)(nil)
var _ core.Transactional = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
