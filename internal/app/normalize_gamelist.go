package app

import (
	"context"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/arcade"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/metadata"
)

// NormalizeGamelistCommand rewrites the gamelist.xml of every configured
// system in canonical form, optionally storing DAT-derived arcade vendors.
type NormalizeGamelistCommand struct {
	replace bool
	dryRun  bool
	arcade  bool
}

func NewNormalizeGamelistCommand() *NormalizeGamelistCommand {
	return &NormalizeGamelistCommand{}
}

func (c *NormalizeGamelistCommand) Name() string { return "normalize-gamelist" }

func (c *NormalizeGamelistCommand) Desc() string {
	return "按配置的系统重写并标准化 gamelist.xml 文件"
}

func (c *NormalizeGamelistCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.replace, "replace", false, "是否直接覆盖 gamelist.xml，默认写入 gamelist.xml.fix")
	f.BoolVar(&c.dryRun, "dryrun", false, "仅模拟执行，不写入任何文件")
	f.BoolVar(&c.arcade, "arcade", false, "将 DAT 推导出的街机厂商写入 arcadesystemname")
}

func (c *NormalizeGamelistCommand) PreRun(ctx context.Context) error {
	if _, err := requireConfig(); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("starting normalize-gamelist",
		zap.Bool("replace", c.replace),
		zap.Bool("dryrun", c.dryRun),
		zap.Bool("arcade", c.arcade),
	)
	return nil
}

func (c *NormalizeGamelistCommand) Run(ctx context.Context) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)

	table := arcade.NewTable()
	if c.arcade {
		if table, err = arcade.Load(ctx, cfg.MameDat, cfg.FBNeoDat); err != nil {
			return err
		}
	}

	processed := 0
	written := 0
	for _, sc := range cfg.Systems {
		sys, err := loadConfiguredSystem(ctx, cfg, sc)
		if err != nil {
			logger.Warn("skip system", zap.String("system", sc.Name), zap.Error(err))
			continue
		}
		filled := table.Apply(ctx, sys)
		dest := filepath.Join(sc.Path, metadata.GamelistFileName)
		if !c.replace {
			dest += ".fix"
		}

		processed++
		if c.dryRun {
			logger.Info("gamelist normalize (dryrun)",
				zap.String("system", sc.Name),
				zap.String("dest", filepath.ToSlash(dest)),
				zap.Int("arcade_filled", filled),
			)
			continue
		}
		if err := gamelib.WriteGamelist(ctx, sys, dest); err != nil {
			return err
		}
		written++
	}

	logger.Info("normalize-gamelist completed",
		zap.Int("systems", processed),
		zap.Int("gamelist_written", written),
		zap.Bool("dry_run", c.dryRun),
	)
	return nil
}

func (c *NormalizeGamelistCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("normalize-gamelist", func() IRunner { return NewNormalizeGamelistCommand() })
}
