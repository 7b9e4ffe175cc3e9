package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClient struct {
	objects map[string][]byte
	deleted []string
}

func newMemClient() *memClient {
	return &memClient{objects: make(map[string][]byte)}
}

func (m *memClient) UploadFile(_ context.Context, key, filePath string, _ string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memClient) DownloadToFile(_ context.Context, key, destPath string) error {
	data, ok := m.objects[key]
	if !ok {
		return os.ErrNotExist
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

func (m *memClient) ListKeys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memClient) DeleteKeys(_ context.Context, keys []string) error {
	for _, k := range keys {
		delete(m.objects, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func cfgOnly(name string) bool {
	return strings.HasPrefix(name, "custom-") && strings.HasSuffix(name, ".cfg")
}

func TestBackupUploadsAndPrunes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom-a.cfg"), []byte("./snes/a.zip\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	client := newMemClient()
	client.objects["backup/custom-old.cfg"] = []byte("")
	client.objects["backup/readme.md"] = []byte("")
	client.objects["other/custom-keep.cfg"] = []byte("")

	res, err := Backup(ctx, client, dir, "/backup/", cfgOnly, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-a.cfg"}, res.Transferred)
	assert.Equal(t, []string{"custom-old.cfg"}, res.Pruned)
	assert.Equal(t, "./snes/a.zip\n", string(client.objects["backup/custom-a.cfg"]))
	assert.Contains(t, client.objects, "backup/readme.md")
	assert.Contains(t, client.objects, "other/custom-keep.cfg")
}

func TestRestoreDownloadsMatching(t *testing.T) {
	ctx := context.Background()
	client := newMemClient()
	client.objects["custom-a.cfg"] = []byte("./snes/a.zip\n")
	client.objects["nested/custom-b.cfg"] = []byte("")
	client.objects["readme.md"] = []byte("")

	dir := filepath.Join(t.TempDir(), "collections")
	res, err := Restore(ctx, client, dir, "", cfgOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-a.cfg"}, res.Transferred)
	data, err := os.ReadFile(filepath.Join(dir, "custom-a.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "./snes/a.zip\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "readme.md"))
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint("  "))
	assert.Equal(t, "https://s3.local:9000", normalizeEndpoint("s3.local:9000"))
	assert.Equal(t, "http://minio", normalizeEndpoint("http://minio"))
}
