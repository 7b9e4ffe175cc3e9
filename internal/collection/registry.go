package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/settings"
	"github.com/xxxsen/retrocoll/internal/sortkey"
	"github.com/xxxsen/retrocoll/internal/workpool"
	"go.uber.org/zap"
)

// DefaultPinnedSystem stays last when all systems are sorted.
const DefaultPinnedSystem = "retropie"

const favoritesLabel = "Favorites"

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNotLoaded          = errors.New("collection systems not loaded")
)

// Record is the runtime state of one collection.
type Record struct {
	System *gamelib.SystemData
	Decl   Decl
	// Enabled means the user opted in.
	Enabled bool
	// Populated never goes back to false.
	Populated bool
	// NeedsSave marks a custom collection changed since its last save.
	NeedsSave bool
}

// Name is the collection system name.
func (r *Record) Name() string { return r.System.Name() }

// Options wires a Registry to its collaborators. Zero values fall back to
// inert defaults.
type Options struct {
	Systems        *gamelib.SystemList
	Settings       settings.Store
	Views          ViewController
	Notifier       Notifier
	Themes         ThemeCatalog
	Vertical       VerticalLookup
	CollectionsDir string
	RomsRoot       string
	PoolSize       int
	PinnedSystem   string
}

// Registry owns the auto and custom collections and the bundle they fold
// into. It is not safe for concurrent use; population fans out internally.
type Registry struct {
	systems        *gamelib.SystemList
	settings       settings.Store
	views          ViewController
	notifier       Notifier
	themes         ThemeCatalog
	vertical       VerticalLookup
	collectionsDir string
	romsRoot       string
	poolSize       int
	pinned         string

	autos   map[string]*Record
	customs map[string]*Record
	bundle  *gamelib.SystemData
	editing *Record
	loaded  bool
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		systems:        opts.Systems,
		settings:       opts.Settings,
		views:          opts.Views,
		notifier:       opts.Notifier,
		themes:         opts.Themes,
		vertical:       opts.Vertical,
		collectionsDir: opts.CollectionsDir,
		romsRoot:       opts.RomsRoot,
		poolSize:       opts.PoolSize,
		pinned:         opts.PinnedSystem,
		autos:          make(map[string]*Record),
		customs:        make(map[string]*Record),
	}
	if r.systems == nil {
		r.systems = gamelib.NewSystemList()
	}
	if r.settings == nil {
		r.settings = settings.NewMemory()
	}
	if r.views == nil {
		r.views = NopViews{}
	}
	if r.notifier == nil {
		r.notifier = LogNotifier{}
	}
	if r.themes == nil {
		r.themes = noThemes{}
	}
	if r.vertical == nil {
		r.vertical = noVertical{}
	}
	if r.poolSize <= 0 {
		r.poolSize = workpool.DefaultSize()
	}
	if r.pinned == "" {
		r.pinned = DefaultPinnedSystem
	}
	return r
}

// Systems is the display list the registry maintains.
func (r *Registry) Systems() *gamelib.SystemList { return r.systems }

// LoadCollectionSystems creates the auto collections and the bundle,
// discovers custom collection files and applies the enabled lists. Unless
// deferUpdate is set the display list is rebuilt right away.
func (r *Registry) LoadCollectionSystems(ctx context.Context, deferUpdate bool) error {
	logger := logutil.GetLogger(ctx)
	if !r.loaded {
		for _, decl := range autoDecls {
			r.autos[decl.Name] = &Record{System: r.newCollectionSystem(decl, decl.Name, decl.LongName, decl.ThemeFolder), Decl: decl}
		}
		tmpl := CustomTemplate()
		r.bundle = gamelib.NewSystem(tmpl.Name, tmpl.LongName, nil, tmpl.ThemeFolder, gamelib.SystemFlags{
			Collection:              true,
			GroupedCustomCollection: true,
			GameSystem:              true,
		})
		r.bundle.SetSortID(sortID(tmpl.DefaultSort))

		names, err := r.discoverCustomCollections(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			r.AddNewCustomCollection(name)
		}
		r.loaded = true
	}

	r.applyEnabledSettings()
	logger.Info("collection systems loaded",
		zap.Int("auto", len(r.autos)),
		zap.Int("custom", len(r.customs)),
	)
	if deferUpdate {
		return nil
	}
	return r.UpdateSystemsList(ctx)
}

func (r *Registry) applyEnabledSettings() {
	enabledAuto := toSet(settings.SplitList(r.settings.String(settings.KeyCollectionSystemsAuto)))
	for name, rec := range r.autos {
		_, rec.Enabled = enabledAuto[name]
	}
	enabledCustom := toSet(settings.SplitList(r.settings.String(settings.KeyCollectionSystemsCustom)))
	for name, rec := range r.customs {
		_, rec.Enabled = enabledCustom[name]
	}
}

func (r *Registry) newCollectionSystem(decl Decl, name, longName, themeFolder string) *gamelib.SystemData {
	sys := gamelib.NewSystem(name, longName, nil, themeFolder, gamelib.SystemFlags{
		Collection: true,
		GameSystem: true,
	})
	sys.SetSortID(sortID(decl.DefaultSort))
	sys.SetShowSourceSystem(r.settings.Bool(settings.KeyCollectionShowSystemInfo))
	return sys
}

func sortID(desc string) int {
	st, _ := gamelib.SortTypeFromString(desc)
	return st.ID
}

// UpdateSystemsList rebuilds the collection part of the display list:
// all games is populated first, every other pending collection afterwards,
// then customs, the bundle and the autos are re-added.
func (r *Registry) UpdateSystemsList(ctx context.Context) error {
	if !r.loaded {
		return ErrNotLoaded
	}
	logger := logutil.GetLogger(ctx)

	for _, sys := range r.systems.All() {
		if sys.IsCollection() {
			r.systems.Remove(sys)
		}
	}
	for _, child := range r.bundle.Root().Children() {
		r.bundle.Root().RemoveChild(child)
	}
	r.bundle.Index().Reset()

	showSystem := r.settings.Bool(settings.KeyCollectionShowSystemInfo)
	for _, rec := range r.allRecords() {
		rec.System.SetShowSourceSystem(showSystem)
	}

	// phase 0: every other collection resolves its games through all games
	all := r.AllGamesCollection()
	if !all.Populated {
		r.PopulateAutoCollection(ctx, all)
	}
	nameMap := r.buildNameMap()

	// phase 1
	r.populatePending(ctx, nameMap)

	useBundle := r.settings.Bool(settings.KeyUseCustomCollectionsSystem)
	for _, rec := range r.CustomCollections() {
		if !rec.Enabled {
			continue
		}
		if !useBundle || r.themes.HasSystemTheme(rec.System.ThemeFolder()) {
			r.systems.Add(rec.System)
			continue
		}
		r.bundle.Root().AddChild(rec.System.Root())
		r.bundle.Index().ImportIndex(rec.System.Index())
	}

	if r.settings.Bool(settings.KeySortAllSystems) {
		r.systems.SortRealSystems(r.systemLess)
	}

	if r.bundle.Root().ChildCount() > 0 {
		r.UpdateCollectionFolderMetadata(r.bundle)
		r.systems.Add(r.bundle)
	}

	for _, rec := range r.AutoCollections() {
		if !rec.Enabled {
			continue
		}
		if rec.System.Root().ChildCount() == 0 && !rec.Decl.DisplayIfEmpty {
			continue
		}
		r.systems.Add(rec.System)
	}

	if r.editing != nil {
		if rec, ok := r.customs[r.editing.Name()]; !ok || rec != r.editing || !rec.Enabled {
			r.ExitEditMode(ctx)
		}
	}
	logger.Debug("systems list updated", zap.Int("systems", r.systems.Len()))
	return nil
}

func (r *Registry) systemLess(a, b *gamelib.SystemData) bool {
	aPinned := strings.EqualFold(a.Name(), r.pinned)
	bPinned := strings.EqualFold(b.Name(), r.pinned)
	if aPinned != bPinned {
		return bPinned
	}
	return sortkey.Less(a.FullName(), b.FullName())
}

// populatePending fills every enabled collection that is not populated yet,
// through the worker pool when threaded loading is on and there is more
// than one job.
func (r *Registry) populatePending(ctx context.Context, nameMap map[string]gamelib.FileNode) {
	var pending []*Record
	for _, rec := range r.allRecords() {
		if rec.Enabled && !rec.Populated {
			pending = append(pending, rec)
		}
	}
	if len(pending) == 0 {
		return
	}
	if !r.settings.Bool(settings.KeyThreadedLoading) || len(pending) < 2 {
		for _, rec := range pending {
			r.populate(ctx, rec, nameMap)
		}
		return
	}
	pool := workpool.New(r.poolSize)
	for _, rec := range pending {
		pool.Queue(func() { r.populate(ctx, rec, nameMap) })
	}
	pool.Wait()
	logutil.GetLogger(ctx).Debug("collections populated in parallel", zap.Int("collections", len(pending)))
}

func (r *Registry) populate(ctx context.Context, rec *Record, nameMap map[string]gamelib.FileNode) {
	if rec.Decl.IsCustom {
		r.PopulateCustomCollection(ctx, rec, nameMap)
		return
	}
	r.PopulateAutoCollection(ctx, rec)
}

// buildNameMap indexes the all games collection by absolute source path.
func (r *Registry) buildNameMap() map[string]gamelib.FileNode {
	all := r.AllGamesCollection()
	m := make(map[string]gamelib.FileNode, all.System.Root().ChildCount())
	all.System.Root().CreateChildrenByFilenameMap(m)
	return m
}

// GetSystemToView returns the system whose view shows sys: the bundle when
// sys is folded into it, sys otherwise.
func (r *Registry) GetSystemToView(sys *gamelib.SystemData) *gamelib.SystemData {
	if r.bundle != nil && sys.Root().Parent() == r.bundle.Root() {
		return r.bundle
	}
	return sys
}

func (r *Registry) lookupView(sys *gamelib.SystemData) (GameListView, bool) {
	return r.views.LookupGameListView(r.GetSystemToView(sys))
}

// AutoCollections returns the auto records in declaration order.
func (r *Registry) AutoCollections() []*Record {
	out := make([]*Record, 0, len(autoDecls))
	for _, decl := range autoDecls {
		if rec, ok := r.autos[decl.Name]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// CustomCollections returns the custom records sorted by name.
func (r *Registry) CustomCollections() []*Record {
	out := make([]*Record, 0, len(r.customs))
	for _, rec := range r.customs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return sortkey.Less(out[i].Name(), out[j].Name()) })
	return out
}

func (r *Registry) allRecords() []*Record {
	return append(r.AutoCollections(), r.CustomCollections()...)
}

// AllGamesCollection returns the record every other collection depends on.
func (r *Registry) AllGamesCollection() *Record {
	return r.autos[autoDecls[0].Name]
}

// Bundle is the meta-system custom collections fold into.
func (r *Registry) Bundle() *gamelib.SystemData { return r.bundle }

// FindCollection looks up an auto or custom collection by name.
func (r *Registry) FindCollection(name string) (*Record, bool) {
	if rec, ok := r.autos[name]; ok {
		return rec, true
	}
	rec, ok := r.customs[name]
	return rec, ok
}

func (r *Registry) IsCustomCollection(name string) bool {
	_, ok := r.customs[name]
	return ok
}

// IsThemeCustomCollection reports whether a custom collection has a theme
// folder of its own and therefore its own view.
func (r *Registry) IsThemeCustomCollection(name string) bool {
	rec, ok := r.customs[name]
	return ok && r.themes.HasSystemTheme(rec.System.ThemeFolder())
}

// AddNewCustomCollection registers a disabled, unpopulated custom
// collection. An existing record with the same name is returned as is.
func (r *Registry) AddNewCustomCollection(name string) *Record {
	if rec, ok := r.customs[name]; ok {
		return rec
	}
	tmpl := CustomTemplate()
	rec := &Record{
		System: r.newCollectionSystem(tmpl, name, name, name),
		Decl:   tmpl,
	}
	r.customs[name] = rec
	return rec
}

// CreateCustomCollection validates candidate, creates the collection,
// enables it and writes its (empty) file.
func (r *Registry) CreateCustomCollection(ctx context.Context, candidate string) (string, error) {
	if !r.loaded {
		return "", ErrNotLoaded
	}
	name := r.GetValidNewCollectionName(candidate)
	rec := r.AddNewCustomCollection(name)
	rec.Enabled = true
	rec.Populated = true
	rec.NeedsSave = true
	r.saveEnabledCustom()
	if err := r.SaveCustomCollection(ctx, rec); err != nil {
		return name, err
	}
	logutil.GetLogger(ctx).Info("custom collection created", zap.String("name", name))
	return name, r.UpdateSystemsList(ctx)
}

// DeleteCustomCollection drops the record, its view, its file and its
// enabled entry.
func (r *Registry) DeleteCustomCollection(ctx context.Context, name string) error {
	rec, ok := r.customs[name]
	if !ok {
		return fmt.Errorf("delete collection %s: %w", name, ErrCollectionNotFound)
	}
	if r.editing == rec {
		r.ExitEditMode(ctx)
	}
	r.systems.Remove(rec.System)
	r.views.RemoveGameListView(rec.System)
	rec.System.Root().Delete()
	delete(r.customs, name)
	r.saveEnabledCustom()
	if err := r.removeCollectionFile(name); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("custom collection deleted", zap.String("name", name))
	return r.UpdateSystemsList(ctx)
}

// SetEnabledCollections replaces both enabled lists and rebuilds the
// display list. Unknown names are ignored.
func (r *Registry) SetEnabledCollections(ctx context.Context, auto, custom []string) error {
	if !r.loaded {
		return ErrNotLoaded
	}
	autoSet, customSet := toSet(auto), toSet(custom)
	for name, rec := range r.autos {
		_, rec.Enabled = autoSet[name]
	}
	for name, rec := range r.customs {
		_, rec.Enabled = customSet[name]
	}
	r.settings.SetString(settings.KeyCollectionSystemsAuto, settings.JoinList(enabledNames(r.AutoCollections())))
	r.saveEnabledCustom()
	return r.UpdateSystemsList(ctx)
}

func (r *Registry) saveEnabledCustom() {
	r.settings.SetString(settings.KeyCollectionSystemsCustom, settings.JoinList(enabledNames(r.CustomCollections())))
}

func enabledNames(recs []*Record) []string {
	var out []string
	for _, rec := range recs {
		if rec.Enabled {
			out = append(out, rec.Name())
		}
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// SetEditMode starts editing the named custom collection; toggling a game
// then adds or removes it there instead of flipping its favorite flag.
func (r *Registry) SetEditMode(ctx context.Context, name string) bool {
	rec, ok := r.customs[name]
	if !ok {
		return false
	}
	if !rec.Populated {
		r.PopulateCustomCollection(ctx, rec, nil)
	}
	r.editing = rec
	r.notifier.Notify(ctx, fmt.Sprintf("Editing the '%s' collection. Toggle games to add or remove them.", strings.ToUpper(name)))
	return true
}

// ExitEditMode goes back to toggling favorites.
func (r *Registry) ExitEditMode(ctx context.Context) {
	if r.editing == nil {
		return
	}
	r.notifier.Notify(ctx, fmt.Sprintf("Finished editing the '%s' collection.", strings.ToUpper(r.editing.Name())))
	r.editing = nil
}

func (r *Registry) IsEditing() bool { return r.editing != nil }

// EditingCollection names the target of the toggle gesture.
func (r *Registry) EditingCollection() string {
	if r.editing == nil {
		return favoritesLabel
	}
	return r.editing.Name()
}

// Close removes the collections from the display list, saves dirty custom
// collections and releases every alias. Real games are never touched.
func (r *Registry) Close(ctx context.Context) error {
	if !r.loaded {
		return nil
	}
	for _, sys := range r.systems.All() {
		if sys.IsCollection() {
			r.systems.Remove(sys)
		}
	}
	var errs []error
	for _, rec := range r.CustomCollections() {
		if err := r.SaveCustomCollection(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	for _, child := range r.bundle.Root().Children() {
		r.bundle.Root().RemoveChild(child)
	}
	for _, rec := range r.allRecords() {
		rec.System.Root().Delete()
	}
	r.bundle.Root().Delete()
	r.editing = nil
	r.autos = make(map[string]*Record)
	r.customs = make(map[string]*Record)
	r.loaded = false
	return errors.Join(errs...)
}
