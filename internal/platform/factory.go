package platform

import (
	"github.com/plumekit/plume/pkg/core"
)

// New builds a fully wired core.Service for the vault at uri.
// The URI argument is adapter-specific (a file path for 'fs').
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	service := core.NewService(repo)
	if size, ok := o.config["event_buffer"].(int); ok {
		service.SetEventBufferSize(size)
	}

	return service, nil
}
