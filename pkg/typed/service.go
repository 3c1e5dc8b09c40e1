package typed

import (
	"context"

	"github.com/plumekit/plume/pkg/core"
)

// Service wraps a core.Service to provide type-safe access.
type Service[T any] struct {
	svc *core.Service
}

// NewService creates a new typed service wrapper.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{svc: svc}
}

// Save persists a typed post through the core service.
func (s *Service[T]) Save(ctx context.Context, p *PostModel[T]) error {
	metadata, err := toMetadata(p.Data)
	if err != nil {
		return err
	}

	if p.Saver == nil {
		p.Saver = s
	}

	return s.svc.SavePost(ctx, p.ID, p.Content, metadata)
}

// Get retrieves a post via the service.
func (s *Service[T]) Get(ctx context.Context, id string) (*PostModel[T], error) {
	corePost, err := s.svc.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(corePost, Saver[T](s))
}

// List retrieves all posts via the service.
func (s *Service[T]) List(ctx context.Context) ([]*PostModel[T], error) {
	corePosts, err := s.svc.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*PostModel[T], 0, len(corePosts))
	for _, p := range corePosts {
		model, err := fromCore(p, Saver[T](s))
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a post via the service.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.svc.DeletePost(ctx, id)
}

// Watch observes changes in the repository.
func (s *Service[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, pattern)
}

// WithTransaction executes a typed function within a transaction.
func (s *Service[T]) WithTransaction(ctx context.Context, fn func(tx *Transaction[T]) error) error {
	return s.svc.WithTransaction(ctx, func(coreTx core.Transaction) error {
		return fn(&Transaction[T]{tx: coreTx})
	})
}

// Transaction wraps a core.Transaction for typed operations.
type Transaction[T any] struct {
	tx core.Transaction
}

// Save stages a typed post within the transaction.
func (t *Transaction[T]) Save(ctx context.Context, p *PostModel[T]) error {
	metadata, err := toMetadata(p.Data)
	if err != nil {
		return err
	}
	return t.tx.Save(ctx, core.Post{
		ID:       p.ID,
		Content:  p.Content,
		Metadata: metadata,
	})
}

// Get reads a post within the transaction, staged state included.
func (t *Transaction[T]) Get(ctx context.Context, id string) (*PostModel[T], error) {
	corePost, err := t.tx.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore[T](corePost, nil)
}

// Delete stages a removal within the transaction.
func (t *Transaction[T]) Delete(ctx context.Context, id string) error {
	return t.tx.Delete(ctx, id)
}
