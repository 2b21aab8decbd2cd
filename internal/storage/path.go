package storage

import (
	"path/filepath"
	"strings"
)

// PathProvider supplies the local base path joined with logical
// filenames. It is resolved on every operation, so implementations may
// compute the path at call time.
type PathProvider interface {
	Resolve() string
}

// StaticPath is a PathProvider that always resolves to a fixed path.
type StaticPath string

// Resolve returns the literal path.
func (p StaticPath) Resolve() string { return string(p) }

// PathFunc adapts a function into a PathProvider. The function is
// re-invoked on every resolution.
type PathFunc func() string

// Resolve invokes the function.
func (f PathFunc) Resolve() string { return f() }

// localPath maps a logical filename to an absolute local path. An
// absolute filename replaces the base path entirely; remote object
// handles resolve through this form so derived keys match stored ones.
func (c Config) localPath(filename string) (string, error) {
	if c.BasePath == nil {
		return "", errMissingBasePath()
	}
	base := c.BasePath.Resolve()
	if base == "" {
		return "", errMissingBasePath()
	}
	if filepath.IsAbs(filename) {
		return filepath.Clean(filename), nil
	}
	return filepath.Join(base, filename), nil
}

// keyFromPath converts a local path to a remote object key: the static
// root parent is removed at its first occurrence and leading
// separators are stripped. Pure function of configuration and path.
func (c Config) keyFromPath(path string) (string, error) {
	if c.StaticRootParent == "" {
		return "", errMissingStaticRoot()
	}
	key := strings.Replace(path, c.StaticRootParent, "", 1)
	return strings.TrimLeft(key, "/"), nil
}

// remoteKey maps a logical filename to its remote object key.
func (c Config) remoteKey(filename string) (string, error) {
	path, err := c.localPath(filename)
	if err != nil {
		return "", err
	}
	return c.keyFromPath(path)
}
