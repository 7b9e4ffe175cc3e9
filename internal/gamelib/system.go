package gamelib

import (
	"sort"
	"strings"
)

// PlatformArcade is the platform id arcade collections look for.
const PlatformArcade = "arcade"

// Emulator lists the cores one emulator offers for a system.
type Emulator struct {
	Name  string
	Cores []string
}

// SystemEnvironment describes where a system lives and how it launches.
type SystemEnvironment struct {
	StartPath     string
	Extensions    []string
	LaunchCommand string
	PlatformIDs   []string
	Emulators     []Emulator
}

// HasPlatform reports whether id is one of the system's platforms.
func (e *SystemEnvironment) HasPlatform(id string) bool {
	if e == nil {
		return false
	}
	for _, p := range e.PlatformIDs {
		if strings.EqualFold(p, id) {
			return true
		}
	}
	return false
}

// AcceptsExtension reports whether ext (with dot) is a valid game extension.
func (e *SystemEnvironment) AcceptsExtension(ext string) bool {
	for _, candidate := range e.Extensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

// SystemFlags are fixed at construction.
type SystemFlags struct {
	Collection              bool
	GroupedCustomCollection bool
	GameSystem              bool
}

// SystemData is a named container of games, real or virtual.
type SystemData struct {
	name             string
	fullName         string
	themeFolder      string
	env              *SystemEnvironment
	root             *FolderData
	index            *FileFilterIndex
	sortID           int
	flags            SystemFlags
	showSourceSystem bool
}

// NewSystem builds a system with an empty root folder at env.StartPath. For
// virtual systems the root path is the system name.
func NewSystem(name, fullName string, env *SystemEnvironment, themeFolder string, flags SystemFlags) *SystemData {
	if env == nil {
		env = &SystemEnvironment{}
	}
	if themeFolder == "" {
		themeFolder = name
	}
	sys := &SystemData{
		name:        name,
		fullName:    fullName,
		themeFolder: themeFolder,
		env:         env,
		flags:       flags,
		index:       NewFileFilterIndex(),
	}
	rootPath := env.StartPath
	if rootPath == "" {
		rootPath = name
	}
	sys.root = NewFolderData(rootPath, sys)
	sys.root.Metadata().Set(MetaName, fullName)
	sys.root.Metadata().ResetChanged()
	return sys
}

func (s *SystemData) Name() string { return s.name }

func (s *SystemData) FullName() string { return s.fullName }

func (s *SystemData) ThemeFolder() string { return s.themeFolder }

func (s *SystemData) Environment() *SystemEnvironment { return s.env }

func (s *SystemData) Root() *FolderData { return s.root }

func (s *SystemData) Index() *FileFilterIndex { return s.index }

func (s *SystemData) IsCollection() bool { return s.flags.Collection }

// IsGroupedCustomCollection is true only for the bundle meta-system.
func (s *SystemData) IsGroupedCustomCollection() bool { return s.flags.GroupedCustomCollection }

// IsGameSystem is false for tool / media systems whose entries are not games.
func (s *SystemData) IsGameSystem() bool { return s.flags.GameSystem }

func (s *SystemData) SetShowSourceSystem(v bool) { s.showSourceSystem = v }

func (s *SystemData) SortID() int { return s.sortID }

// SetSortID selects an entry of SortTypes; out of range ids fall back to 0.
func (s *SystemData) SetSortID(id int) {
	if id < 0 || id >= len(sortTypes) {
		id = 0
	}
	s.sortID = id
}

func (s *SystemData) SortType() SortType { return sortTypes[s.sortID] }

// ViewSystem is the system whose view shows s: the bundle when s's root is
// folded into it, s otherwise.
func (s *SystemData) ViewSystem() *SystemData {
	if parent := s.root.Parent(); parent != nil && parent.System() != nil && parent.System().IsGroupedCustomCollection() {
		return parent.System()
	}
	return s
}

// GameCount counts the games of the tree.
func (s *SystemData) GameCount() int {
	return len(s.root.FilesRecursive(TypeGame, false, nil))
}

// AddToIndex indexes node in the system filter index.
func (s *SystemData) AddToIndex(node FileNode) { s.index.AddToIndex(node) }

func (s *SystemData) RemoveFromIndex(node FileNode) { s.index.RemoveFromIndex(node) }

// SystemList is the ordered set of systems on display. Membership, not
// object lifetime, decides visibility.
type SystemList struct {
	systems []*SystemData
}

func NewSystemList(systems ...*SystemData) *SystemList {
	l := &SystemList{}
	for _, s := range systems {
		l.Add(s)
	}
	return l
}

// Add appends sys unless it is already listed.
func (l *SystemList) Add(sys *SystemData) {
	if sys == nil || l.Contains(sys) {
		return
	}
	l.systems = append(l.systems, sys)
}

func (l *SystemList) Remove(sys *SystemData) bool {
	for i, s := range l.systems {
		if s == sys {
			l.systems = append(l.systems[:i], l.systems[i+1:]...)
			return true
		}
	}
	return false
}

func (l *SystemList) Contains(sys *SystemData) bool {
	for _, s := range l.systems {
		if s == sys {
			return true
		}
	}
	return false
}

// All returns a copy of the list in display order.
func (l *SystemList) All() []*SystemData {
	out := make([]*SystemData, len(l.systems))
	copy(out, l.systems)
	return out
}

func (l *SystemList) Len() int { return len(l.systems) }

// Find looks a system up by name, case-insensitively.
func (l *SystemList) Find(name string) *SystemData {
	for _, s := range l.systems {
		if strings.EqualFold(s.name, name) {
			return s
		}
	}
	return nil
}

// SortRealSystems reorders the non-collection systems with less while
// collections keep their slots.
func (l *SystemList) SortRealSystems(less func(a, b *SystemData) bool) {
	var slots []int
	var real []*SystemData
	for i, s := range l.systems {
		if s.IsCollection() {
			continue
		}
		slots = append(slots, i)
		real = append(real, s)
	}
	sort.SliceStable(real, func(i, j int) bool { return less(real[i], real[j]) })
	for i, slot := range slots {
		l.systems[slot] = real[i]
	}
}
