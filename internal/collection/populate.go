package collection

import (
	"context"
	"errors"
	"os"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/pathutil"
	"go.uber.org/zap"
)

// realSystems lists the non-collection systems of the display list.
func (r *Registry) realSystems() []*gamelib.SystemData {
	var out []*gamelib.SystemData
	for _, sys := range r.systems.All() {
		if !sys.IsCollection() {
			out = append(out, sys)
		}
	}
	return out
}

// PopulateAutoCollection scans every real system once and adds an alias
// for each game the collection's predicate accepts. It only writes to the
// collection of rec, so different records may populate concurrently.
func (r *Registry) PopulateAutoCollection(ctx context.Context, rec *Record) {
	if rec.Populated {
		return
	}
	sys := rec.System
	root := sys.Root()
	for _, real := range r.realSystems() {
		for _, node := range real.Root().FilesRecursive(gamelib.TypeGame, false, nil) {
			game := node.Source()
			if game == nil || !matchesDecl(rec.Decl, game, r.vertical) {
				continue
			}
			alias := gamelib.NewCollectionFileData(game, sys)
			root.AddChild(alias)
			sys.AddToIndex(alias)
		}
	}
	if rec.Decl.Type == AutoLastPlayed {
		r.trimRecentlyPlayed(rec)
	}
	rec.Populated = true
	r.UpdateCollectionFolderMetadata(sys)
	logutil.GetLogger(ctx).Debug("auto collection populated",
		zap.String("collection", sys.Name()),
		zap.Int("games", root.ChildCount()),
	)
}

// PopulateCustomCollection resolves every line of the collection file
// through nameMap. A nil map is built from the all games collection. A
// missing file leaves the collection empty; unresolvable lines are skipped.
func (r *Registry) PopulateCustomCollection(ctx context.Context, rec *Record, nameMap map[string]gamelib.FileNode) {
	if rec.Populated {
		return
	}
	rec.Populated = true
	logger := logutil.GetLogger(ctx).With(zap.String("collection", rec.Name()))

	path := r.customCollectionPath(rec.Name())
	lines, err := readCollectionFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("collection file missing, collection left empty", zap.String("path", path))
		return
	}
	if err != nil {
		logger.Warn("read collection file failed", zap.String("path", path), zap.Error(err))
		return
	}

	if nameMap == nil {
		all := r.AllGamesCollection()
		if !all.Populated {
			r.PopulateAutoCollection(ctx, all)
		}
		nameMap = r.buildNameMap()
	}

	sys := rec.System
	root := sys.Root()
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		abs := pathutil.ResolveRelative(line, r.romsRoot)
		game := gamelib.SourceOf(nameMap[abs])
		if game == nil {
			logger.Info("collection entry not found, skipped", zap.String("entry", line))
			continue
		}
		if _, dup := seen[game.Path()]; dup {
			continue
		}
		seen[game.Path()] = struct{}{}
		alias := gamelib.NewCollectionFileData(game, sys)
		root.AddChild(alias)
		sys.AddToIndex(alias)
	}
	r.UpdateCollectionFolderMetadata(sys)
	logger.Debug("custom collection populated", zap.Int("games", root.ChildCount()))
}

// trimRecentlyPlayed sorts the recently played collection by last played,
// newest first, and drops entries past LastPlayedMax from the tail.
func (r *Registry) trimRecentlyPlayed(rec *Record) {
	root := rec.System.Root()
	st, _ := gamelib.SortTypeFromString(sortByLastPlayed)
	root.Sort(st)
	for root.ChildCount() > LastPlayedMax {
		r.removeAlias(rec, root.LastChild())
	}
}

// removeAlias detaches an alias from its collection, going through the live
// view first when there is one.
func (r *Registry) removeAlias(rec *Record, node gamelib.FileNode) {
	if view, ok := r.lookupView(rec.System); ok {
		view.OnFileChanged(node, Removed)
		view.Remove(node)
	}
	rec.System.RemoveFromIndex(node)
	if r.GetSystemToView(rec.System) == r.bundle {
		r.bundle.RemoveFromIndex(node)
	}
	node.Delete()
}
