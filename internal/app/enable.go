package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/settings"
)

// EnableCommand replaces the enabled auto and/or custom collection lists and
// updates the boolean collection settings.
type EnableCommand struct {
	libraryRunner
	flags  *pflag.FlagSet
	auto   []string
	custom []string
	bools  map[string]*bool
}

var enableBoolFlags = []struct {
	flag string
	key  string
	help string
}{
	{"sort-systems", settings.KeySortAllSystems, "按名称排序所有系统"},
	{"threaded", settings.KeyThreadedLoading, "并发填充合集"},
	{"bundle", settings.KeyUseCustomCollectionsSystem, "将自定义合集归入 collections 系统"},
	{"show-system", settings.KeyCollectionShowSystemInfo, "合集中的游戏名附带来源系统"},
}

func NewEnableCommand() *EnableCommand {
	return &EnableCommand{bools: make(map[string]*bool)}
}

func (c *EnableCommand) Name() string { return "enable" }

func (c *EnableCommand) Desc() string {
	return "设置启用的自动/自定义合集以及合集相关开关"
}

func (c *EnableCommand) Init(f *pflag.FlagSet) {
	c.flags = f
	f.StringSliceVar(&c.auto, "auto", nil, "启用的自动合集列表, 例如 all,favorites,recent")
	f.StringSliceVar(&c.custom, "custom", nil, "启用的自定义合集列表")
	for _, b := range enableBoolFlags {
		c.bools[b.key] = f.Bool(b.flag, false, b.help)
	}
}

func (c *EnableCommand) changed(name string) bool {
	return c.flags != nil && c.flags.Changed(name)
}

func (c *EnableCommand) PreRun(ctx context.Context) error {
	requested := c.changed("auto") || c.changed("custom")
	for _, b := range enableBoolFlags {
		requested = requested || c.changed(b.flag)
	}
	if !requested {
		return errors.New("enable requires at least one of --auto, --custom or a setting flag")
	}
	return c.libraryRunner.PreRun(ctx)
}

func (c *EnableCommand) Run(ctx context.Context) error {
	reg := c.env.Registry
	for _, name := range c.auto {
		if _, ok := collection.FindDecl(name); !ok {
			return fmt.Errorf("auto %s: %w", name, collection.ErrCollectionNotFound)
		}
	}
	for _, name := range c.custom {
		if !reg.IsCustomCollection(name) {
			return fmt.Errorf("custom %s: %w", name, collection.ErrCollectionNotFound)
		}
	}

	for _, b := range enableBoolFlags {
		if c.changed(b.flag) {
			c.env.Settings.SetBool(b.key, *c.bools[b.key])
		}
	}

	auto := enabledNames(reg.AutoCollections())
	if c.changed("auto") {
		auto = c.auto
	}
	custom := enabledNames(reg.CustomCollections())
	if c.changed("custom") {
		custom = c.custom
	}
	if err := reg.SetEnabledCollections(ctx, auto, custom); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("collections enabled",
		zap.Strings("auto", auto),
		zap.Strings("custom", custom),
	)
	return nil
}

func enabledNames(recs []*collection.Record) []string {
	var out []string
	for _, rec := range recs {
		if rec.Enabled {
			out = append(out, rec.Name())
		}
	}
	return out
}

func init() {
	RegisterRunner("enable", func() IRunner { return NewEnableCommand() })
}
