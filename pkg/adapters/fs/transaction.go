package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/plumekit/plume/pkg/core"
)

// Transaction implements core.Transaction for the filesystem.
type Transaction struct {
	repo    *Repository
	staged  map[string]core.Post // ID -> Post
	deleted map[string]bool      // ID -> bool
	mu      sync.Mutex
	closed  bool
}

// NewTransaction creates a new transaction.
func NewTransaction(repo *Repository) *Transaction {
	return &Transaction{
		repo:    repo,
		staged:  make(map[string]core.Post),
		deleted: make(map[string]bool),
	}
}

// Save stages a post for saving.
func (t *Transaction) Save(ctx context.Context, p core.Post) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction closed")
	}
	if p.ID == "" {
		return core.ErrNoID
	}

	t.staged[p.ID] = p
	delete(t.deleted, p.ID)
	return nil
}

// Get retrieves a post, favoring staged changes.
func (t *Transaction) Get(ctx context.Context, id string) (core.Post, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Post{}, fmt.Errorf("transaction closed")
	}

	if t.deleted[id] {
		return core.Post{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if p, ok := t.staged[id]; ok {
		return p, nil
	}

	// Fallback to repo
	return t.repo.Get(ctx, id)
}

// Delete stages a post for deletion.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction closed")
	}

	t.deleted[id] = true
	delete(t.staged, id)
	return nil
}

// Commit applies all staged changes under the vault lock, then records a
// single git commit covering the batch.
func (t *Transaction) Commit(ctx context.Context, changeReason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transaction already closed")
	}
	if t.repo.config.ReadOnly {
		return core.ErrReadOnly
	}

	// 1. Git lock (if applicable)
	if !t.repo.config.Gitless {
		unlock, err := t.repo.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()
	}

	// 2. Apply writes to disk
	var filesToAdd []string
	var filesToRm []string

	for id, p := range t.staged {
		filename, ext := filenameFor(id)
		fullPath := filepath.Join(t.repo.Path, filename)
		filesToAdd = append(filesToAdd, filename)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return fmt.Errorf("failed to create directories for %s: %w", id, err)
		}

		data, err := t.repo.serializerFor(ext).Serialize(p)
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", id, err)
		}

		if err := writeFileAtomic(fullPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", id, err)
		}

		t.repo.cache.Set(filepath.ToSlash(filename), entryFromPost(id, p, time.Now()))
	}

	for id := range t.deleted {
		filename, _ := filenameFor(id)
		fullPath := filepath.Join(t.repo.Path, filename)
		filesToRm = append(filesToRm, filename)

		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file %s: %w", id, err)
		}
		t.repo.cache.Delete(filepath.ToSlash(filename))
	}

	// 3. Git commit
	if !t.repo.config.Gitless {
		if len(filesToAdd) > 0 {
			if err := t.repo.git.Add(filesToAdd...); err != nil {
				return fmt.Errorf("failed to git add: %w", err)
			}
		}

		if len(filesToRm) > 0 {
			if err := t.repo.git.Rm(filesToRm...); err != nil {
				return fmt.Errorf("failed to git rm: %w", err)
			}
		}

		msg := changeReason
		if msg == "" {
			msg = "batch transaction update"
		}
		if err := t.repo.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	if err := t.repo.cache.Save(); err != nil {
		if t.repo.config.Logger != nil {
			t.repo.config.Logger.Warn("failed to save index cache", "error", err)
		}
	}

	t.closed = true
	return nil
}

// Rollback discards all staged changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.staged = nil
	t.deleted = nil
	t.closed = true
	return nil
}

var _ core.Transaction = (*Transaction)(nil)
