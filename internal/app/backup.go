package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/collection"
	appdb "github.com/xxxsen/retrocoll/internal/db"
	"github.com/xxxsen/retrocoll/internal/settings"
	"github.com/xxxsen/retrocoll/internal/storage"
)

func isCollectionFile(name string) bool {
	_, ok := collection.ParseCustomCollectionFileName(name)
	return ok
}

func ensureStorage(ctx context.Context) (storage.Client, error) {
	if client := storage.DefaultClient(); client != nil {
		return client, nil
	}
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.S3.Enabled() {
		return nil, errors.New("config.s3 is not configured")
	}
	client, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	storage.SetDefaultClient(client)
	return client, nil
}

// BackupCommand uploads the custom collection files to S3.
type BackupCommand struct {
	prune  bool
	client storage.Client
	result *storage.BackupResult
}

func NewBackupCommand() *BackupCommand { return &BackupCommand{} }

func (c *BackupCommand) Name() string { return "backup" }

func (c *BackupCommand) Desc() string {
	return "将自定义合集文件备份到 S3"
}

func (c *BackupCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.prune, "prune", false, "删除远端已不存在于本地的合集文件")
}

func (c *BackupCommand) PreRun(ctx context.Context) error {
	client, err := ensureStorage(ctx)
	if err != nil {
		return err
	}
	c.client = client
	logutil.GetLogger(ctx).Info("backup begin", zap.Bool("prune", c.prune))
	return nil
}

func (c *BackupCommand) Run(ctx context.Context) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	res, err := storage.Backup(ctx, c.client, cfg.CollectionsDir, cfg.S3.Prefix, isCollectionFile, c.prune)
	if err != nil {
		return err
	}
	c.result = res
	return nil
}

func (c *BackupCommand) PostRun(ctx context.Context) error {
	if c.result != nil {
		logutil.GetLogger(ctx).Info("backup finished",
			zap.Strings("uploaded", c.result.Transferred),
			zap.Strings("pruned", c.result.Pruned),
		)
	}
	return nil
}

// RestoreCommand downloads custom collection files from S3 and optionally
// enables them.
type RestoreCommand struct {
	enable bool
	client storage.Client
	result *storage.BackupResult
}

func NewRestoreCommand() *RestoreCommand { return &RestoreCommand{} }

func (c *RestoreCommand) Name() string { return "restore" }

func (c *RestoreCommand) Desc() string {
	return "从 S3 恢复自定义合集文件"
}

func (c *RestoreCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.enable, "enable", false, "恢复后启用这些合集")
}

func (c *RestoreCommand) PreRun(ctx context.Context) error {
	client, err := ensureStorage(ctx)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *RestoreCommand) Run(ctx context.Context) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	res, err := storage.Restore(ctx, c.client, cfg.CollectionsDir, cfg.S3.Prefix, isCollectionFile)
	if err != nil {
		return err
	}
	c.result = res
	if !c.enable || len(res.Transferred) == 0 {
		return nil
	}
	return enableRestored(ctx, cfg.SettingsDB, res.Transferred)
}

// enableRestored adds the restored names to the enabled custom list without
// loading the library.
func enableRestored(ctx context.Context, dbPath string, files []string) error {
	conn, err := appdb.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	store, err := settings.NewPersistent(ctx, appdb.NewSettingsDAO(conn))
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	names := settings.SplitList(store.String(settings.KeyCollectionSystemsCustom))
	for _, file := range files {
		if name, ok := collection.ParseCustomCollectionFileName(file); ok {
			names = append(names, name)
		}
	}
	store.SetString(settings.KeyCollectionSystemsCustom, settings.JoinList(dedupe(names)))
	return nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (c *RestoreCommand) PostRun(ctx context.Context) error {
	if c.result != nil {
		logutil.GetLogger(ctx).Info("restore finished", zap.Strings("downloaded", c.result.Transferred))
	}
	return nil
}

func init() {
	RegisterRunner("backup", func() IRunner { return NewBackupCommand() })
	RegisterRunner("restore", func() IRunner { return NewRestoreCommand() })
}
