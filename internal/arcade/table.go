// Package arcade derives the vertical game list and the vendor tag of each
// arcade rom set from MAME and FinalBurn Neo DAT files.
package arcade

import (
	"context"
	"path"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/dat"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/pathutil"
	"go.uber.org/zap"
)

// Table maps rom set names to their orientation and vendor tag. It is
// read-only once loaded and safe for concurrent lookups.
type Table struct {
	vertical map[string]bool
	vendor   map[string]string
}

func NewTable() *Table {
	return &Table{
		vertical: make(map[string]bool),
		vendor:   make(map[string]string),
	}
}

// Load fills a table from the given DAT files. Empty paths are skipped.
func Load(ctx context.Context, mamePath, fbneoPath string) (*Table, error) {
	t := NewTable()
	logger := logutil.GetLogger(ctx)
	if mamePath != "" {
		df, err := dat.ParseMameFile(mamePath)
		if err != nil {
			return nil, err
		}
		t.AddMame(df)
		logger.Info("mame dat loaded", zap.String("path", mamePath), zap.Int("machines", len(df.Machines)))
	}
	if fbneoPath != "" {
		df, err := dat.ParseFBNeoFile(fbneoPath)
		if err != nil {
			return nil, err
		}
		t.AddFBNeo(df)
		logger.Info("fbneo dat loaded", zap.String("path", fbneoPath), zap.Int("games", len(df.Games)))
	}
	return t, nil
}

// AddMame indexes every playable machine of df.
func (t *Table) AddMame(df *dat.MameDataFile) {
	for i := range df.Machines {
		m := &df.Machines[i]
		if !m.IsPlayable() {
			continue
		}
		t.add(m.Name, m.IsVertical(), vendorTag(m.SourceFile, m.Manufacturer))
	}
}

// AddFBNeo indexes every non BIOS game of df.
func (t *Table) AddFBNeo(df *dat.DataFile) {
	for i := range df.Games {
		g := &df.Games[i]
		if g.IsBios == "yes" {
			continue
		}
		t.add(g.Name, g.IsVertical(), vendorTag(g.SourceFile, g.Manufacturer))
	}
}

func (t *Table) add(name string, vertical bool, vendor string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if vertical {
		t.vertical[name] = true
	}
	if vendor != "" {
		if _, ok := t.vendor[name]; !ok {
			t.vendor[name] = vendor
		}
	}
}

// IsVertical reports whether the rom set runs on a rotated screen.
func (t *Table) IsVertical(name string) bool {
	return t.vertical[strings.ToLower(name)]
}

// Vendor returns the vendor tag of the rom set, or "".
func (t *Table) Vendor(name string) string {
	return t.vendor[strings.ToLower(name)]
}

// Len is the number of rom sets with a known vendor or orientation.
func (t *Table) Len() int {
	seen := make(map[string]struct{}, len(t.vendor))
	for k := range t.vendor {
		seen[k] = struct{}{}
	}
	for k := range t.vertical {
		seen[k] = struct{}{}
	}
	return len(seen)
}

// vendorTag guesses the vendor collection from the driver source file
// ("capcom/cps1.cpp", "cps2/d_cps2.cpp"), then from the manufacturer.
func vendorTag(sourceFile, manufacturer string) string {
	if sourceFile != "" {
		sf := strings.ToLower(path.Clean(strings.ReplaceAll(sourceFile, "\\", "/")))
		stem := strings.TrimPrefix(strings.TrimSuffix(path.Base(sf), path.Ext(sf)), "d_")
		if collection.IsVendorTag(stem) {
			return stem
		}
		if dir := path.Base(path.Dir(sf)); collection.IsVendorTag(dir) {
			return dir
		}
	}
	m := strings.ToLower(manufacturer)
	if i := strings.IndexAny(m, "/(,"); i >= 0 {
		m = m[:i]
	}
	words := strings.Fields(strings.NewReplacer("-", "", ".", "").Replace(m))
	if len(words) == 0 {
		return ""
	}
	if joined := strings.Join(words, ""); collection.IsVendorTag(joined) {
		return joined
	}
	if collection.IsVendorTag(words[0]) {
		return words[0]
	}
	return ""
}

// Enrich fills the empty arcadesystemname of every game of an arcade system
// from the vendor table and re-indexes it. A record that was clean stays
// clean, so derived values are not written back on their own.
func (t *Table) Enrich(ctx context.Context, sys *gamelib.SystemData) int {
	return t.fill(ctx, sys, true)
}

// Apply is Enrich without the clean guarantee: filled records are marked
// changed so the next gamelist save stores them.
func (t *Table) Apply(ctx context.Context, sys *gamelib.SystemData) int {
	return t.fill(ctx, sys, false)
}

func (t *Table) fill(ctx context.Context, sys *gamelib.SystemData, keepClean bool) int {
	if !sys.Environment().HasPlatform(gamelib.PlatformArcade) {
		return 0
	}
	filled := 0
	for _, node := range sys.Root().FilesRecursive(gamelib.TypeGame, false, nil) {
		md := node.Metadata()
		if md.Get(gamelib.MetaArcadeSystemName) != "" {
			continue
		}
		tag := t.Vendor(pathutil.Stem(node.Path()))
		if tag == "" {
			continue
		}
		wasChanged := md.Changed()
		md.Set(gamelib.MetaArcadeSystemName, tag)
		if keepClean && !wasChanged {
			md.ResetChanged()
		}
		sys.AddToIndex(node)
		filled++
	}
	logutil.GetLogger(ctx).Debug("arcade vendors filled",
		zap.String("system", sys.Name()),
		zap.Int("games", filled),
	)
	return filled
}
