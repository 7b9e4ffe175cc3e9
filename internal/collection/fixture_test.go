package collection

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/settings"
)

var romsRoot = filepath.Join(string(filepath.Separator), "roms")

type gameSpec struct {
	file string
	md   map[string]string
}

func game(file string, kv ...string) gameSpec {
	md := make(map[string]string)
	for i := 0; i+1 < len(kv); i += 2 {
		md[kv[i]] = kv[i+1]
	}
	return gameSpec{file: file, md: md}
}

type systemSpec struct {
	name      string
	nonGame   bool
	platforms []string
	games     []gameSpec
}

func buildSystem(spec systemSpec) *gamelib.SystemData {
	env := &gamelib.SystemEnvironment{
		StartPath:   filepath.Join(romsRoot, spec.name),
		Extensions:  []string{".zip"},
		PlatformIDs: spec.platforms,
	}
	sys := gamelib.NewSystem(spec.name, strings.ToUpper(spec.name), env, "", gamelib.SystemFlags{GameSystem: !spec.nonGame})
	for _, g := range spec.games {
		node := gamelib.NewFileData(gamelib.TypeGame, filepath.Join(env.StartPath, g.file), sys)
		for k, v := range g.md {
			node.Metadata().Set(k, v)
		}
		node.Metadata().ResetChanged()
		sys.Root().AddChild(node)
		sys.AddToIndex(node)
	}
	return sys
}

func findGame(t *testing.T, sys *gamelib.SystemData, file string) *gamelib.FileData {
	t.Helper()
	node := sys.Root().FindByPath(filepath.Join(sys.Environment().StartPath, file))
	require.NotNil(t, node, "game %s", file)
	return node.Source()
}

type fakeView struct {
	mu      sync.Mutex
	changes []ChangeKind
	removed []gamelib.FileNode
}

func (v *fakeView) OnFileChanged(_ gamelib.FileNode, kind ChangeKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.changes = append(v.changes, kind)
}

func (v *fakeView) Remove(node gamelib.FileNode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, node)
}

func (v *fakeView) count(kind ChangeKind) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, k := range v.changes {
		if k == kind {
			n++
		}
	}
	return n
}

type fakeViews struct {
	mu      sync.Mutex
	views   map[*gamelib.SystemData]*fakeView
	removed []*gamelib.SystemData
}

func newFakeViews() *fakeViews {
	return &fakeViews{views: make(map[*gamelib.SystemData]*fakeView)}
}

func (f *fakeViews) GetGameListView(sys *gamelib.SystemData) GameListView {
	return f.view(sys)
}

func (f *fakeViews) view(sys *gamelib.SystemData) *fakeView {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[sys]
	if !ok {
		v = &fakeView{}
		f.views[sys] = v
	}
	return v
}

func (f *fakeViews) LookupGameListView(sys *gamelib.SystemData) (GameListView, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[sys]
	if !ok {
		return nil, false
	}
	return v, true
}

func (f *fakeViews) RemoveGameListView(sys *gamelib.SystemData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.views, sys)
	f.removed = append(f.removed, sys)
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, msg string) {
	n.messages = append(n.messages, msg)
}

type fakeThemes map[string]bool

func (f fakeThemes) HasSystemTheme(folder string) bool { return f[folder] }

func (f fakeThemes) Folders() []string {
	var out []string
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type fakeVertical map[string]bool

func (f fakeVertical) IsVertical(name string) bool { return f[name] }

type harness struct {
	reg      *Registry
	list     *gamelib.SystemList
	settings *settings.Memory
	views    *fakeViews
	notifier *fakeNotifier
	dir      string
}

func newHarness(t *testing.T, systems []*gamelib.SystemData, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{
		list:     gamelib.NewSystemList(systems...),
		settings: settings.NewMemory(),
		views:    newFakeViews(),
		notifier: &fakeNotifier{},
		dir:      t.TempDir(),
	}
	h.settings.SetBool(settings.KeyCollectionShowSystemInfo, false)
	opts := Options{
		Systems:        h.list,
		Settings:       h.settings,
		Views:          h.views,
		Notifier:       h.notifier,
		CollectionsDir: h.dir,
		RomsRoot:       romsRoot,
		PoolSize:       4,
	}
	if mutate != nil {
		mutate(&opts)
	}
	h.reg = NewRegistry(opts)
	return h
}

func (h *harness) enableAuto(names ...string) {
	h.settings.SetString(settings.KeyCollectionSystemsAuto, strings.Join(names, ","))
}

func (h *harness) enableCustom(names ...string) {
	h.settings.SetString(settings.KeyCollectionSystemsCustom, strings.Join(names, ","))
}

func (h *harness) record(t *testing.T, name string) *Record {
	t.Helper()
	rec, ok := h.reg.FindCollection(name)
	require.True(t, ok, "collection %s", name)
	return rec
}

// files lists the source file names of a collection, sorted.
func files(rec *Record) []string {
	var out []string
	for _, child := range rec.System.Root().Children() {
		out = append(out, filepath.Base(child.Path()))
	}
	sort.Strings(out)
	return out
}
