package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// MatchFunc selects the file names of a directory that take part in a backup.
type MatchFunc func(name string) bool

// BackupResult summarises one backup or restore run.
type BackupResult struct {
	Transferred []string
	Pruned      []string
}

func objectKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func listPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// Backup uploads every matching file of dir under prefix. With prune set,
// matching remote objects without a local file are deleted.
func Backup(ctx context.Context, client Client, dir, prefix string, match MatchFunc, prune bool) (*BackupResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir %s: %w", dir, err)
	}
	res := &BackupResult{}
	local := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		key := objectKey(prefix, entry.Name())
		if err := client.UploadFile(ctx, key, filepath.Join(dir, entry.Name()), ""); err != nil {
			return res, err
		}
		local[key] = struct{}{}
		res.Transferred = append(res.Transferred, entry.Name())
		logutil.GetLogger(ctx).Debug("collection uploaded", zap.String("key", key))
	}
	if !prune {
		return res, nil
	}

	remote, err := client.ListKeys(ctx, listPrefix(prefix))
	if err != nil {
		return res, err
	}
	var stale []string
	for _, key := range remote {
		if _, ok := local[key]; ok {
			continue
		}
		if !match(path.Base(key)) {
			continue
		}
		stale = append(stale, key)
	}
	if len(stale) == 0 {
		return res, nil
	}
	sort.Strings(stale)
	if err := client.DeleteKeys(ctx, stale); err != nil {
		return res, err
	}
	for _, key := range stale {
		res.Pruned = append(res.Pruned, path.Base(key))
	}
	return res, nil
}

// Restore downloads every matching object under prefix into dir, replacing
// local files of the same name.
func Restore(ctx context.Context, client Client, dir, prefix string, match MatchFunc) (*BackupResult, error) {
	keys, err := client.ListKeys(ctx, listPrefix(prefix))
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	res := &BackupResult{}
	for _, key := range keys {
		name := path.Base(key)
		if objectKey(prefix, name) != key || !match(name) {
			logutil.GetLogger(ctx).Debug("skip remote object", zap.String("key", key))
			continue
		}
		if err := client.DownloadToFile(ctx, key, filepath.Join(dir, name)); err != nil {
			return res, err
		}
		res.Transferred = append(res.Transferred, name)
	}
	return res, nil
}
