package plume

import _ "embed"

// Version is the library version, embedded from the VERSION file so that
// release tooling and the CLI agree on a single source.
//
//go:embed VERSION
var Version string
