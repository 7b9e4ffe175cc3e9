// Package themes inspects the active theme set for per-system folders.
package themes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ThemeFile marks a folder as a system theme.
const ThemeFile = "theme.xml"

// DirCatalog is a snapshot of the system folders of one theme set.
type DirCatalog struct {
	dir     string
	folders map[string]bool
}

// NewDirCatalog scans dir once. A missing dir yields an empty catalog.
func NewDirCatalog(dir string) (*DirCatalog, error) {
	c := &DirCatalog{dir: dir, folders: make(map[string]bool)}
	if dir == "" {
		return c, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		_, statErr := os.Stat(filepath.Join(dir, entry.Name(), ThemeFile))
		c.folders[entry.Name()] = statErr == nil
	}
	return c, nil
}

// HasSystemTheme reports whether folder carries a theme.xml.
func (c *DirCatalog) HasSystemTheme(folder string) bool {
	return c.folders[folder]
}

// Folders lists every sub folder of the theme set, themed or not.
func (c *DirCatalog) Folders() []string {
	out := make([]string, 0, len(c.folders))
	for name := range c.folders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
