// Package plume is the Composition Root for the Plume library.
//
// It connects the core business logic (Domain Layer) with the infrastructure adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Plume is a storage engine for static blogs. It treats a directory of Markdown
// posts with YAML front matter as a transactional database, abstracting the
// underlying storage mechanism. While the default implementation uses the
// File System and Git, Plume's core is agnostic, allowing for future adapters.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Round-trip Safe**: Unmodified posts re-serialize byte-identically, so
//     hand-authored front matter never churns in version control.
//   - **Metadata First**: Native front matter parsing with an mtime-validated index.
//   - **Typed Retrieval**: Generic wrapper (`NewTypedRepository[T]`) for type-safe access.
//   - **Default Adapter (FS + Git)**: Out-of-the-box support for local Markdown posts
//     with Git versioning and semantic commit messages.
//   - **Blog Toolkit**: Slugs, excerpts, reading stats and table formatting in pkg/blog
//     and pkg/markdownfmt.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := plume.New("./posts",
//		plume.WithAutoInit(true),
//		plume.WithLogger(logger),
//	)
//
//	// Save a post
//	err := svc.SavePost(ctx, "2020-01-01-hello", "# Hello\n", core.Metadata{"title": "Hello"})
package plume
