package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/arcade"
	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/config"
	appdb "github.com/xxxsen/retrocoll/internal/db"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/pathutil"
	"github.com/xxxsen/retrocoll/internal/settings"
	"github.com/xxxsen/retrocoll/internal/themes"
)

var (
	defaultConfig *config.Config
	defaultOutput io.Writer = os.Stdout
)

// SetConfig installs the configuration shared by every runner.
func SetConfig(c *config.Config) {
	defaultConfig = c
}

// Config returns the configuration installed by SetConfig.
func Config() *config.Config {
	return defaultConfig
}

func requireConfig() (*config.Config, error) {
	if defaultConfig == nil {
		return nil, errors.New("config not loaded")
	}
	return defaultConfig, nil
}

// Env is a loaded library: real systems, settings and the collection
// registry built over them.
type Env struct {
	Config   *config.Config
	Settings *settings.Persistent
	Arcade   *arcade.Table
	Registry *collection.Registry

	db      *sql.DB
	systems []*gamelib.SystemData
}

// OpenEnv loads everything cfg describes. Systems whose directory is missing
// or holds no game are skipped.
func OpenEnv(ctx context.Context, cfg *config.Config, notifier collection.Notifier) (*Env, error) {
	logger := logutil.GetLogger(ctx)
	conn, err := appdb.Open(ctx, cfg.SettingsDB)
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, db: conn}

	store, err := settings.NewPersistent(ctx, appdb.NewSettingsDAO(conn))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	env.Settings = store

	table, err := arcade.Load(ctx, cfg.MameDat, cfg.FBNeoDat)
	if err != nil {
		conn.Close()
		return nil, err
	}
	env.Arcade = table

	for _, sc := range cfg.Systems {
		sys, err := loadConfiguredSystem(ctx, cfg, sc)
		if err != nil {
			logger.Warn("skip system", zap.String("system", sc.Name), zap.Error(err))
			continue
		}
		if sys.GameCount() == 0 {
			logger.Info("skip empty system", zap.String("system", sc.Name))
			continue
		}
		if n := table.Enrich(ctx, sys); n > 0 {
			logger.Info("arcade metadata enriched", zap.String("system", sc.Name), zap.Int("games", n))
		}
		env.systems = append(env.systems, sys)
	}

	catalog, err := themes.NewDirCatalog(cfg.ThemesDir)
	if err != nil {
		conn.Close()
		return nil, err
	}

	env.Registry = collection.NewRegistry(collection.Options{
		Systems:        gamelib.NewSystemList(env.systems...),
		Settings:       store,
		Notifier:       notifier,
		Themes:         catalog,
		Vertical:       table,
		CollectionsDir: cfg.CollectionsDir,
		RomsRoot:       cfg.RomsRoot,
		PinnedSystem:   cfg.PinnedSystem,
	})
	if err := env.Registry.LoadCollectionSystems(ctx, false); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("library loaded",
		zap.Int("systems", len(env.systems)),
		zap.Int("on_display", env.Registry.Systems().Len()),
	)
	return env, nil
}

func loadConfiguredSystem(ctx context.Context, cfg *config.Config, sc config.SystemConfig) (*gamelib.SystemData, error) {
	emulators := make([]gamelib.Emulator, 0, len(sc.Emulators))
	for _, e := range sc.Emulators {
		emulators = append(emulators, gamelib.Emulator{Name: e.Name, Cores: e.Cores})
	}
	sysEnv := &gamelib.SystemEnvironment{
		StartPath:     sc.Path,
		Extensions:    sc.Extensions,
		LaunchCommand: sc.Command,
		PlatformIDs:   sc.Platforms,
		Emulators:     emulators,
	}
	return gamelib.LoadSystem(ctx, sc.Name, sc.FullName, sysEnv, sc.Theme,
		gamelib.SystemFlags{GameSystem: cfg.IsGameSystem(sc.Name)})
}

// RealSystems lists the loaded game library systems in config order.
func (e *Env) RealSystems() []*gamelib.SystemData {
	return e.systems
}

// FindGame resolves a rom path to its game. Paths may be absolute, "./"
// relative to the roms root, or plain relative to the roms root.
func (e *Env) FindGame(path string) (*gamelib.FileData, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty game path")
	}
	full := pathutil.ResolveRelative(path, e.Config.RomsRoot)
	if !strings.HasPrefix(path, "./") && !filepath.IsAbs(full) {
		full = filepath.Join(e.Config.RomsRoot, path)
	}
	for _, sys := range e.systems {
		node := sys.Root().FindByPath(full)
		if node == nil {
			continue
		}
		if game := node.Source(); game != nil && game.Type() == gamelib.TypeGame {
			return game, nil
		}
	}
	return nil, fmt.Errorf("game %s not found", path)
}

// DisplayOptions builds the list projection switches from the settings.
func (e *Env) DisplayOptions() gamelib.DisplayOptions {
	return gamelib.DisplayOptions{
		ShowHidden:                e.Settings.Bool(settings.KeyShowHiddenFiles),
		KidMode:                   e.Settings.String(settings.KeyUIMode) == settings.UIModeKid,
		CollapseSingleGameFolders: e.Settings.Bool(settings.KeyCollapseSingleGameFolders),
	}
}

// Close writes back changed gamelists and custom collections, then releases
// the settings database.
func (e *Env) Close(ctx context.Context) error {
	var errs []error
	for _, sys := range e.systems {
		if _, err := gamelib.SaveGamelist(ctx, sys); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.Registry.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := e.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close settings db: %w", err))
	}
	return errors.Join(errs...)
}

// consoleNotifier prints popup messages for the command line user.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(ctx context.Context, msg string) {
	fmt.Fprintln(n.w, msg)
	logutil.GetLogger(ctx).Debug("notify", zap.String("msg", msg))
}

// libraryRunner is embedded by runners that work on a loaded library.
type libraryRunner struct {
	env *Env
	out io.Writer
}

func (r *libraryRunner) output() io.Writer {
	if r.out == nil {
		return defaultOutput
	}
	return r.out
}

func (r *libraryRunner) PreRun(ctx context.Context) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	env, err := OpenEnv(ctx, cfg, consoleNotifier{w: r.output()})
	if err != nil {
		return err
	}
	r.env = env
	return nil
}

func (r *libraryRunner) PostRun(ctx context.Context) error {
	if r.env == nil {
		return nil
	}
	err := r.env.Close(ctx)
	r.env = nil
	return err
}
