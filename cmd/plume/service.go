package main

import (
	"log/slog"
	"os"

	"github.com/plumekit/plume"
	"github.com/plumekit/plume/pkg/core"
)

// openService locates the posts directory (walking up from the CWD) and
// wires a service against it. Commands that only read pass mustExist=true.
func openService(mustExist bool) (*core.Service, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := plume.FindVaultRoot(wd)
	if err != nil {
		// No marker found: operate on the CWD directly.
		root = wd
	}

	return plume.New(root,
		plume.WithVersioning(!gitless),
		plume.WithMustExist(mustExist),
		plume.WithLogger(slog.Default()),
		plume.WithDevSafety(false),
	)
}
