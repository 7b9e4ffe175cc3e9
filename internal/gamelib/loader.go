package gamelib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/metadata"
	"github.com/xxxsen/retrocoll/internal/pathutil"
	"go.uber.org/zap"
)

// LoadSystem builds a real system by walking env.StartPath for files with a
// valid extension and applying the gamelist.xml found at the root. A missing
// or broken gamelist only costs the scraped metadata.
func LoadSystem(ctx context.Context, name, fullName string, env *SystemEnvironment, themeFolder string, flags SystemFlags) (*SystemData, error) {
	if env == nil || strings.TrimSpace(env.StartPath) == "" {
		return nil, fmt.Errorf("load system %s: start path is empty", name)
	}
	info, err := os.Stat(env.StartPath)
	if err != nil {
		return nil, fmt.Errorf("stat system dir %s: %w", env.StartPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load system %s: %s is not a directory", name, env.StartPath)
	}
	flags.Collection = false
	flags.GroupedCustomCollection = false
	sys := NewSystem(name, fullName, env, themeFolder, flags)
	if err := populateFolder(sys.root, sys); err != nil {
		return nil, err
	}

	logger := logutil.GetLogger(ctx).With(zap.String("system", name))
	gamelistPath := filepath.Join(env.StartPath, metadata.GamelistFileName)
	doc, err := metadata.ParseGamelistFile(gamelistPath)
	switch {
	case err == nil:
		applied := applyGamelist(sys, doc)
		logger.Debug("gamelist applied", zap.Int("entries", applied))
	case errors.Is(err, os.ErrNotExist):
		logger.Info("no gamelist found", zap.String("path", gamelistPath))
	default:
		logger.Warn("skip unreadable gamelist", zap.String("path", gamelistPath), zap.Error(err))
	}

	for _, game := range sys.root.FilesRecursive(TypeGame, false, nil) {
		game.Metadata().ResetChanged()
		sys.AddToIndex(game)
	}
	for _, folder := range sys.root.FilesRecursive(TypeFolder, false, nil) {
		folder.Metadata().ResetChanged()
	}
	logger.Info("system loaded", zap.Int("games", sys.GameCount()))
	return sys, nil
}

func populateFolder(folder *FolderData, sys *SystemData) error {
	entries, err := os.ReadDir(folder.Path())
	if err != nil {
		return fmt.Errorf("read dir %s: %w", folder.Path(), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		full := filepath.Join(folder.Path(), entry.Name())
		if entry.IsDir() {
			sub := NewFolderData(full, sys)
			if err := populateFolder(sub, sys); err != nil {
				return err
			}
			if sub.ChildCount() > 0 {
				folder.AddChild(sub)
			}
			continue
		}
		if !sys.env.AcceptsExtension(filepath.Ext(entry.Name())) {
			continue
		}
		folder.AddChild(NewFileData(TypeGame, full, sys))
	}
	return nil
}

func applyGamelist(sys *SystemData, doc *metadata.GamelistDocument) int {
	applied := 0
	for _, entry := range doc.Games {
		node := sys.root.FindByPath(pathutil.ResolveRelative(entry.Path, sys.env.StartPath))
		if node == nil || node.Type() != TypeGame {
			continue
		}
		applyGameEntry(node.Metadata(), entry)
		applied++
	}
	for _, entry := range doc.Folders {
		node := sys.root.FindByPath(pathutil.ResolveRelative(entry.Path, sys.env.StartPath))
		if node == nil || node.Type() != TypeFolder {
			continue
		}
		applyFolderEntry(node.Metadata(), entry)
		applied++
	}
	return applied
}

func applyGameEntry(md *Metadata, e metadata.GamelistEntry) {
	for key, value := range map[string]string{
		MetaName:             e.Name,
		MetaSortName:         e.SortName,
		MetaDesc:             e.Description,
		MetaImage:            e.Image,
		MetaThumbnail:        e.Thumbnail,
		MetaMarquee:          e.Marquee,
		MetaVideo:            e.Video,
		MetaRating:           e.Rating,
		MetaReleaseDate:      e.ReleaseDate,
		MetaDeveloper:        e.Developer,
		MetaPublisher:        e.Publisher,
		MetaGenre:            e.Genre,
		MetaPlayers:          e.Players,
		MetaPlayCount:        e.PlayCount,
		MetaLastPlayed:       e.LastPlayed,
		MetaArcadeSystemName: e.ArcadeSystemName,
		MetaLang:             e.Lang,
		MetaRegion:           e.Region,
		MetaMD5:              e.MD5,
		MetaCRC32:            e.CRC32,
	} {
		if value != "" {
			md.Set(key, value)
		}
	}
	if e.Favorite {
		md.SetBool(MetaFavorite, true)
	}
	if e.Hidden {
		md.SetBool(MetaHidden, true)
	}
	if e.KidGame {
		md.SetBool(MetaKidGame, true)
	}
}

func applyFolderEntry(md *Metadata, e metadata.GamelistFolder) {
	for key, value := range map[string]string{
		MetaName:        e.Name,
		MetaDesc:        e.Description,
		MetaImage:       e.Image,
		MetaThumbnail:   e.Thumbnail,
		MetaVideo:       e.Video,
		MetaReleaseDate: e.ReleaseDate,
		MetaDeveloper:   e.Developer,
		MetaGenre:       e.Genre,
		MetaPlayers:     e.Players,
	} {
		if value != "" {
			md.Set(key, value)
		}
	}
	if e.Hidden {
		md.SetBool(MetaHidden, true)
	}
}

// HasUnsavedMetadata reports whether any node of sys changed since it was
// loaded or last saved.
func HasUnsavedMetadata(sys *SystemData) bool {
	for _, node := range sys.root.FilesRecursive(TypeGame|TypeFolder, false, nil) {
		if node.Metadata().Changed() {
			return true
		}
	}
	return false
}

// SaveGamelist writes the metadata of every node of a real system back to
// its gamelist.xml. Nothing is written when no record changed.
func SaveGamelist(ctx context.Context, sys *SystemData) (bool, error) {
	if sys.IsCollection() {
		return false, fmt.Errorf("save gamelist %s: collections have no gamelist", sys.Name())
	}
	if !HasUnsavedMetadata(sys) {
		return false, nil
	}
	if err := WriteGamelist(ctx, sys, filepath.Join(sys.env.StartPath, metadata.GamelistFileName)); err != nil {
		return false, err
	}
	return true, nil
}

// WriteGamelist unconditionally writes the metadata of sys to path and marks
// every record clean.
func WriteGamelist(ctx context.Context, sys *SystemData, path string) error {
	if sys.IsCollection() {
		return fmt.Errorf("write gamelist %s: collections have no gamelist", sys.Name())
	}
	base := sys.env.StartPath
	doc := &metadata.GamelistDocument{}
	for _, node := range sys.root.FilesRecursive(TypeGame|TypeFolder, false, nil) {
		md := node.Metadata()
		if len(md.Keys()) == 0 {
			continue
		}
		rel := pathutil.CreateRelative(node.Path(), base)
		if node.Type() == TypeFolder {
			doc.Folders = append(doc.Folders, folderEntry(rel, md))
			continue
		}
		doc.Games = append(doc.Games, gameEntry(rel, md))
	}
	if err := metadata.WriteGamelistFile(path, doc); err != nil {
		return fmt.Errorf("save gamelist %s: %w", sys.Name(), err)
	}
	for _, node := range sys.root.FilesRecursive(TypeGame|TypeFolder, false, nil) {
		node.Metadata().ResetChanged()
	}
	logutil.GetLogger(ctx).Info("gamelist saved",
		zap.String("system", sys.Name()),
		zap.String("path", path),
		zap.Int("games", len(doc.Games)),
	)
	return nil
}

func gameEntry(rel string, md *Metadata) metadata.GamelistEntry {
	return metadata.GamelistEntry{
		Path:             rel,
		Name:             md.Get(MetaName),
		SortName:         md.Get(MetaSortName),
		Description:      md.Get(MetaDesc),
		Image:            md.Get(MetaImage),
		Thumbnail:        md.Get(MetaThumbnail),
		Marquee:          md.Get(MetaMarquee),
		Video:            md.Get(MetaVideo),
		Rating:           md.Get(MetaRating),
		ReleaseDate:      md.Get(MetaReleaseDate),
		Developer:        md.Get(MetaDeveloper),
		Publisher:        md.Get(MetaPublisher),
		Genre:            md.Get(MetaGenre),
		Players:          md.Get(MetaPlayers),
		PlayCount:        md.Get(MetaPlayCount),
		LastPlayed:       md.Get(MetaLastPlayed),
		Favorite:         md.Bool(MetaFavorite),
		Hidden:           md.Bool(MetaHidden),
		KidGame:          md.Bool(MetaKidGame),
		ArcadeSystemName: md.Get(MetaArcadeSystemName),
		Lang:             md.Get(MetaLang),
		Region:           md.Get(MetaRegion),
		MD5:              md.Get(MetaMD5),
		CRC32:            md.Get(MetaCRC32),
	}
}

func folderEntry(rel string, md *Metadata) metadata.GamelistFolder {
	return metadata.GamelistFolder{
		Path:        rel,
		Name:        md.Get(MetaName),
		Description: md.Get(MetaDesc),
		Image:       md.Get(MetaImage),
		Thumbnail:   md.Get(MetaThumbnail),
		Video:       md.Get(MetaVideo),
		ReleaseDate: md.Get(MetaReleaseDate),
		Developer:   md.Get(MetaDeveloper),
		Genre:       md.Get(MetaGenre),
		Players:     md.Get(MetaPlayers),
		Hidden:      md.Bool(MetaHidden),
	}
}
