package collection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/pathutil"
	"go.uber.org/zap"
)

const (
	customFilePrefix = "custom-"
	customFileExt    = ".cfg"
)

// CustomCollectionFileName is the file a custom collection persists to.
func CustomCollectionFileName(name string) string {
	return customFilePrefix + name + customFileExt
}

// ParseCustomCollectionFileName extracts the collection name from a file
// name, rejecting anything not shaped like custom-<name>.cfg.
func ParseCustomCollectionFileName(file string) (string, bool) {
	if !strings.HasPrefix(file, customFilePrefix) || !strings.HasSuffix(file, customFileExt) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(file, customFilePrefix), customFileExt)
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

func (r *Registry) customCollectionPath(name string) string {
	return filepath.Join(r.collectionsDir, CustomCollectionFileName(name))
}

// CollectionsDir is where custom collection files live.
func (r *Registry) CollectionsDir() string { return r.collectionsDir }

func (r *Registry) discoverCustomCollections(ctx context.Context) ([]string, error) {
	logger := logutil.GetLogger(ctx)
	if strings.TrimSpace(r.collectionsDir) == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(r.collectionsDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("collections dir missing", zap.String("dir", r.collectionsDir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collections dir %s: %w", r.collectionsDir, err)
	}
	var names []string
	for _, entry := range entries {
		name, ok := ParseCustomCollectionFileName(entry.Name())
		if entry.IsDir() || !ok {
			logger.Info("ignore unexpected file in collections dir", zap.String("file", entry.Name()))
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SaveCustomCollection writes a dirty custom collection, one game per line,
// paths relative to the roms root. Clean records are left alone.
func (r *Registry) SaveCustomCollection(ctx context.Context, rec *Record) error {
	if !rec.Decl.IsCustom || !rec.NeedsSave {
		return nil
	}
	var lines []string
	for _, child := range rec.System.Root().Children() {
		if child.Source() == nil {
			continue
		}
		lines = append(lines, pathutil.CreateRelative(child.Path(), r.romsRoot))
	}
	path := r.customCollectionPath(rec.Name())
	if err := writeCollectionFile(path, lines); err != nil {
		return fmt.Errorf("save collection %s: %w", rec.Name(), err)
	}
	rec.NeedsSave = false
	logutil.GetLogger(ctx).Info("custom collection saved",
		zap.String("collection", rec.Name()),
		zap.String("path", path),
		zap.Int("games", len(lines)),
	)
	return nil
}

func (r *Registry) removeCollectionFile(name string) error {
	path := r.customCollectionPath(name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove collection file %s: %w", path, err)
	}
	return nil
}

// readCollectionFile returns the trimmed, non-blank lines of path.
func readCollectionFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan collection file %s: %w", path, err)
	}
	return lines, nil
}

// writeCollectionFile replaces path atomically through a temp sibling.
func writeCollectionFile(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure collections dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "collection-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp collection in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp collection %s: %w", tmpPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush temp collection %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp collection %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename collection %s: %w", path, err)
	}
	return nil
}
