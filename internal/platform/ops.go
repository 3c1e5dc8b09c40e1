package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plumekit/plume/pkg/adapters/fs"
	"github.com/plumekit/plume/pkg/core"
)

// Init initializes a new Plume vault based on the provided configuration.
// The 'uri' argument is adapter-specific (e.g., file path for 'fs').
//
// It returns the configured core.Repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, _ := o.config["gitless"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	strict, _ := o.config["strict"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	// Default to safe if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only is inherently safe; explicit opt-out also bypasses.
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveVaultPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolvedPath)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolvedPath)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolvedPath)
		}
	}

	// Smart gitless detection: when not explicitly configured, infer from
	// the directory contents.
	if _, ok := o.config["gitless"]; !ok {
		gitPath := filepath.Join(resolvedPath, ".git")
		detectSystemDir := ".plume"
		if systemDir != "" {
			detectSystemDir = systemDir
		}
		systemPath := filepath.Join(resolvedPath, detectSystemDir)

		if _, err := os.Stat(gitPath); err == nil {
			// .git exists: it's a git vault.
			gitless = false
		} else {
			if autoInit {
				// A .plume dir without .git means an existing gitless vault;
				// a fresh directory defaults to git.
				if _, err := os.Stat(systemPath); err == nil {
					gitless = true
				} else {
					gitless = false
				}
			} else {
				// Just opening a folder without .git: raw FS mode.
				gitless = true
			}

			if gitless && o.logger != nil {
				o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
			}
		}
	}

	if systemDir == "" {
		systemDir = ".plume"
	}

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	repo := fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		Strict:       strict,
		Logger:       o.logger,
		SystemDir:    systemDir,
		EventBuffer:  eventBuffer,
		ErrorHandler: errorHandler,
		ReadOnly:     isReadOnly,
	})

	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			if o.logger != nil {
				o.logger.Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			}
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		repo.RegisterSerializer(ext, serializer)
	}

	return repo, nil
}

// Sync synchronizes the vault at the given URI with its remote.
func Sync(uri string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var repo core.Repository

	if o.repository != nil {
		repo = o.repository
	} else {
		var err error
		switch o.adapter {
		case "fs":
			// Sync expects the vault to exist already.
			o.config["must_exist"] = true
			repo, err = initFS(uri, o)
		default:
			return fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return err
		}
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("repository does not support synchronization")
	}

	return syncable.Sync(context.Background())
}
