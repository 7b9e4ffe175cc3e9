package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/gamelib"
)

// ToggleCommand flips games in favorites, or in a custom collection when one
// is named.
type ToggleCommand struct {
	libraryRunner
	paths      []string
	collection string
}

func NewToggleCommand() *ToggleCommand { return &ToggleCommand{} }

func (c *ToggleCommand) Name() string { return "toggle" }

func (c *ToggleCommand) Desc() string {
	return "切换游戏的收藏状态, 或将游戏加入/移出指定的自定义合集"
}

func (c *ToggleCommand) Init(f *pflag.FlagSet) {
	f.StringSliceVar(&c.paths, "path", nil, "游戏 ROM 路径, 可重复指定")
	f.StringVar(&c.collection, "collection", "", "自定义合集名称, 为空时切换收藏")
}

func (c *ToggleCommand) PreRun(ctx context.Context) error {
	if len(c.paths) == 0 {
		return errors.New("toggle requires --path")
	}
	return c.libraryRunner.PreRun(ctx)
}

func (c *ToggleCommand) Run(ctx context.Context) error {
	reg := c.env.Registry
	if c.collection != "" {
		if !reg.IsCustomCollection(c.collection) || !reg.SetEditMode(ctx, c.collection) {
			return fmt.Errorf("%s: %w", c.collection, collection.ErrCollectionNotFound)
		}
		defer reg.ExitEditMode(ctx)
	}
	for _, path := range c.paths {
		game, err := c.env.FindGame(path)
		if err != nil {
			return err
		}
		if !reg.ToggleGameInCollection(ctx, game) {
			return fmt.Errorf("toggle %s: not a game", path)
		}
	}
	return nil
}

// PlayedCommand records a launch: play count, last played time and the
// collections that depend on them.
type PlayedCommand struct {
	libraryRunner
	path string
	now  func() time.Time
}

func NewPlayedCommand() *PlayedCommand { return &PlayedCommand{now: time.Now} }

func (c *PlayedCommand) Name() string { return "played" }

func (c *PlayedCommand) Desc() string {
	return "记录一次游戏启动, 更新游玩次数与最近游玩合集"
}

func (c *PlayedCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.path, "path", "", "游戏 ROM 路径")
}

func (c *PlayedCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.path) == "" {
		return errors.New("played requires --path")
	}
	return c.libraryRunner.PreRun(ctx)
}

func (c *PlayedCommand) Run(ctx context.Context) error {
	game, err := c.env.FindGame(c.path)
	if err != nil {
		return err
	}
	md := game.Metadata()
	count := md.Int(gamelib.MetaPlayCount) + 1
	md.Set(gamelib.MetaPlayCount, fmt.Sprintf("%d", count))
	md.SetTime(gamelib.MetaLastPlayed, c.now())
	c.env.Registry.RefreshCollectionSystems(ctx, game)
	logutil.GetLogger(ctx).Info("game launch recorded",
		zap.String("game", game.Name()),
		zap.Int("play_count", count),
	)
	return nil
}

func init() {
	RegisterRunner("toggle", func() IRunner { return NewToggleCommand() })
	RegisterRunner("played", func() IRunner { return NewPlayedCommand() })
}
