package core

import (
	"context"
	"errors"
	"sync"
)

// Service handles the business logic for posts.
type Service struct {
	repo Repository

	mu              sync.RWMutex
	eventBufferSize int
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, eventBufferSize: 100}
}

// SetEventBufferSize overrides the buffer size used for Watch channels.
// Zero or negative values are ignored.
func (s *Service) SetEventBufferSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	s.eventBufferSize = size
	s.mu.Unlock()
}

// SavePost saves a post with business validation.
// The post is built from scratch, so any previously captured raw
// front-matter block is re-encoded canonically. Use Save with a fetched
// post to keep authored front matter byte-identical across body edits.
func (s *Service) SavePost(ctx context.Context, id string, content string, metadata Metadata) error {
	if id == "" {
		return ErrNoID
	}

	return s.Save(ctx, Post{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	})
}

// Save persists a full post record, carrying RawMeta through so that
// body-only edits do not churn the authored front matter.
func (s *Service) Save(ctx context.Context, p Post) error {
	if p.ID == "" {
		return ErrNoID
	}
	return s.repo.Save(ctx, p)
}

// GetPost retrieves a post.
func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	if id == "" {
		return Post{}, ErrNoID
	}
	return s.repo.Get(ctx, id)
}

// ListPosts retrieves all posts.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoID
	}
	return s.repo.Delete(ctx, id)
}

// WithTransaction executes a function within a transaction.
// The change reason for the commit may be passed via ChangeReasonKey.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return errors.New("repository does not support transactions")
	}

	tx, err := tr.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	msg := "batch transaction"
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	return tx.Commit(ctx, msg)
}

// Begin initiates a transaction manually.
// Exposed for power users or custom workflows.
func (s *Service) Begin(ctx context.Context) (Transaction, error) {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return nil, errors.New("repository does not support transactions")
	}
	return tr.Begin(ctx)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Sync synchronizes the repository with its remote if supported.
func (s *Service) Sync(ctx context.Context) error {
	sy, ok := s.repo.(Syncable)
	if !ok {
		return errors.New("repository does not support synchronization")
	}
	return sy.Sync(ctx)
}
