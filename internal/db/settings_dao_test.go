package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDAOPutAndLoad(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	defer conn.Close()

	dao := NewSettingsDAO(conn)
	all, err := dao.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, dao.Put(ctx, "CollectionSystemsAuto", "all,favorites"))
	require.NoError(t, dao.Put(ctx, "SortAllSystems", "true"))
	require.NoError(t, dao.Put(ctx, "CollectionSystemsAuto", "recent"))

	all, err = dao.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CollectionSystemsAuto": "recent",
		"SortAllSystems":        "true",
	}, all)

	require.NoError(t, dao.Delete(ctx, "SortAllSystems"))
	all, err = dao.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}
