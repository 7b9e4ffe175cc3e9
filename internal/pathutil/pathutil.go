// Package pathutil converts between absolute game paths and the portable form
// stored in collection files, where the roms root is written as "./".
package pathutil

import (
	"path/filepath"
	"strings"
)

const relativePrefix = "./"

// CreateRelative returns path relative to base using the "./" marker. Paths
// outside base are returned cleaned and unchanged.
func CreateRelative(path, base string) string {
	path = filepath.Clean(path)
	if strings.TrimSpace(base) == "" {
		return filepath.ToSlash(path)
	}
	base = filepath.Clean(base)
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return relativePrefix + filepath.ToSlash(rel)
}

// ResolveRelative expands a "./" path against base. Anything else is treated
// as already absolute.
func ResolveRelative(path, base string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, relativePrefix) {
		return filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(path, relativePrefix)))
	}
	return filepath.Clean(filepath.FromSlash(path))
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
