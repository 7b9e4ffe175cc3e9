package collection

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"go.uber.org/zap"
)

// ChangeKind tells a view what happened to a node.
type ChangeKind int

const (
	MetadataChanged ChangeKind = iota
	Sorted
	// Removed is sent to a live view right before its Remove call.
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case MetadataChanged:
		return "metadata_changed"
	case Sorted:
		return "sorted"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// GameListView is the on-screen list of one system.
type GameListView interface {
	OnFileChanged(node gamelib.FileNode, kind ChangeKind)
	// Remove drops node from the view. The caller deletes the node afterwards.
	Remove(node gamelib.FileNode)
}

// ViewController owns the game list views. LookupGameListView may be called
// from population workers and must be safe for concurrent use.
type ViewController interface {
	// GetGameListView returns the view of sys, creating it when needed.
	GetGameListView(sys *gamelib.SystemData) GameListView
	// LookupGameListView returns the view of sys only when it already exists.
	LookupGameListView(sys *gamelib.SystemData) (GameListView, bool)
	RemoveGameListView(sys *gamelib.SystemData)
}

// Notifier shows transient user facing messages.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// ThemeCatalog answers which theme folders exist.
type ThemeCatalog interface {
	HasSystemTheme(folder string) bool
	Folders() []string
}

// VerticalLookup reports whether an arcade rom name is a vertical game.
type VerticalLookup interface {
	IsVertical(name string) bool
}

type nopView struct{}

func (nopView) OnFileChanged(gamelib.FileNode, ChangeKind) {}

func (nopView) Remove(gamelib.FileNode) {}

// NopViews is a ViewController without any live view.
type NopViews struct{}

func (NopViews) GetGameListView(*gamelib.SystemData) GameListView { return nopView{} }

func (NopViews) LookupGameListView(*gamelib.SystemData) (GameListView, bool) { return nil, false }

func (NopViews) RemoveGameListView(*gamelib.SystemData) {}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg string) {
	logutil.GetLogger(ctx).Info("notification", zap.String("message", msg))
}

type noThemes struct{}

func (noThemes) HasSystemTheme(string) bool { return false }

func (noThemes) Folders() []string { return nil }

type noVertical struct{}

func (noVertical) IsVertical(string) bool { return false }
