package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// `go run` places the binary in a go-build temp directory; `go test` binaries
// carry the .test suffix.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.Contains(exe, string(filepath.Separator)+"go-build") {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveVaultPath determines the actual path for the vault based on safety rules.
// With forceTemp, paths outside the OS temp dir are redirected into a
// "plume-dev" sandbox; paths already under temp (e.g. t.TempDir) stay put.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		return userPath
	}

	tempRoot := os.TempDir()
	if abs, err := filepath.Abs(userPath); err == nil {
		if strings.HasPrefix(abs, tempRoot+string(filepath.Separator)) || abs == tempRoot {
			return userPath
		}
	}

	return filepath.Join(tempRoot, "plume-dev", filepath.Base(userPath))
}
