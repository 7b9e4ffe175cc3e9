package collection

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"go.uber.org/zap"
)

// RefreshCollectionSystems brings every populated collection in line with
// the current metadata of game. Existing aliases are re-indexed (favorites
// drops one whose flag went false); only recently played and favorites gain
// new members here.
func (r *Registry) RefreshCollectionSystems(ctx context.Context, game *gamelib.FileData) {
	if game == nil || game.Type() != gamelib.TypeGame || game.Deleted() {
		return
	}
	for _, rec := range r.allRecords() {
		if rec.Populated {
			r.refreshCollection(ctx, rec, game)
		}
	}
}

func (r *Registry) refreshCollection(ctx context.Context, rec *Record, game *gamelib.FileData) {
	sys := rec.System
	root := sys.Root()
	view, hasView := r.lookupView(sys)
	folded := r.GetSystemToView(sys) == r.bundle
	changed := false

	if existing, ok := root.ChildrenByFilename()[game.Path()]; ok {
		changed = true
		if rec.Decl.Type == AutoFavorites && !game.Metadata().Bool(gamelib.MetaFavorite) {
			r.removeAlias(rec, existing)
		} else {
			sys.RemoveFromIndex(existing)
			sys.AddToIndex(existing)
			if folded {
				r.bundle.RemoveFromIndex(existing)
				r.bundle.AddToIndex(existing)
			}
			if hasView {
				view.OnFileChanged(existing, MetadataChanged)
			}
		}
	} else if (rec.Decl.Type == AutoLastPlayed || rec.Decl.Type == AutoFavorites) && matchesDecl(rec.Decl, game, r.vertical) {
		changed = true
		alias := gamelib.NewCollectionFileData(game, sys)
		root.AddChild(alias)
		sys.AddToIndex(alias)
		if hasView {
			view.OnFileChanged(alias, MetadataChanged)
		}
	}

	if rec.Decl.Type == AutoLastPlayed {
		r.trimRecentlyPlayed(rec)
		changed = true
	}
	if !changed {
		return
	}
	r.UpdateCollectionFolderMetadata(sys)
	if hasView {
		view.OnFileChanged(root, Sorted)
	}
	logutil.GetLogger(ctx).Debug("collection refreshed",
		zap.String("collection", sys.Name()),
		zap.String("game", game.Path()),
	)
}

// ToggleGameInCollection is the single editing gesture. In edit mode it adds
// or removes node's game from the edited custom collection; otherwise it
// flips the favorite flag of the game and refreshes the collections. It
// returns false when node does not resolve to a game.
func (r *Registry) ToggleGameInCollection(ctx context.Context, node gamelib.FileNode) bool {
	if node == nil || node.Type() != gamelib.TypeGame {
		return false
	}
	game := node.Source()
	if game == nil {
		return false
	}
	if r.editing != nil {
		r.toggleInCustomCollection(ctx, r.editing, game)
		return true
	}

	md := game.Metadata()
	favorite := !md.Bool(gamelib.MetaFavorite)
	md.SetBool(gamelib.MetaFavorite, favorite)
	if favorite {
		r.notifier.Notify(ctx, fmt.Sprintf("Added '%s' to '%s'", game.Name(), favoritesLabel))
	} else {
		r.notifier.Notify(ctx, fmt.Sprintf("Removed '%s' from '%s'", game.Name(), favoritesLabel))
	}
	r.RefreshCollectionSystems(ctx, game)
	if view, ok := r.views.LookupGameListView(game.System()); ok {
		view.OnFileChanged(game, MetadataChanged)
	}
	return true
}

func (r *Registry) toggleInCustomCollection(ctx context.Context, rec *Record, game *gamelib.FileData) {
	sys := rec.System
	root := sys.Root()
	viewSys := r.GetSystemToView(sys)
	folded := viewSys == r.bundle

	if existing, ok := root.ChildrenByFilename()[game.Path()]; ok {
		r.removeAlias(rec, existing)
		r.notifier.Notify(ctx, fmt.Sprintf("Removed '%s' from '%s'", game.Name(), sys.Name()))
	} else {
		alias := gamelib.NewCollectionFileData(game, sys)
		root.AddChild(alias)
		sys.AddToIndex(alias)
		if folded {
			r.bundle.AddToIndex(alias)
		}
		r.views.GetGameListView(viewSys).OnFileChanged(alias, MetadataChanged)
		r.notifier.Notify(ctx, fmt.Sprintf("Added '%s' to '%s'", game.Name(), sys.Name()))
	}
	rec.NeedsSave = true
	r.UpdateCollectionFolderMetadata(sys)
	r.views.GetGameListView(viewSys).OnFileChanged(root, Sorted)
}

// DeleteGame removes every alias of game from the populated collections and
// then deletes game from its own system.
func (r *Registry) DeleteGame(ctx context.Context, game *gamelib.FileData) {
	if game == nil || game.Deleted() {
		return
	}
	for _, rec := range r.allRecords() {
		if !rec.Populated {
			continue
		}
		if existing, ok := rec.System.Root().ChildrenByFilename()[game.Path()]; ok {
			r.removeAlias(rec, existing)
			if rec.Decl.IsCustom {
				rec.NeedsSave = true
			}
			r.UpdateCollectionFolderMetadata(rec.System)
		}
	}
	if sys := game.System(); sys != nil {
		if view, ok := r.views.LookupGameListView(sys); ok {
			view.Remove(game)
		}
		sys.RemoveFromIndex(game)
	}
	game.Delete()
	logutil.GetLogger(ctx).Info("game deleted", zap.String("path", game.Path()))
}
