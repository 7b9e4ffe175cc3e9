package gamelib

import (
	"fmt"
	"path/filepath"
	"sort"
)

// FolderData owns an ordered list of children. Ownership is exclusive: a node
// belongs to at most one folder at a time.
type FolderData struct {
	FileData
	children []FileNode
}

// NewFolderData builds a detached folder for the absolute path.
func NewFolderData(path string, system *SystemData) *FolderData {
	return &FolderData{
		FileData: FileData{
			fileBase: fileBase{system: system},
			fileType: TypeFolder,
			path:     filepath.Clean(path),
			metadata: NewMetadata(),
		},
	}
}

// Source is always nil: folders are never aliased.
func (f *FolderData) Source() *FileData { return nil }

// AddChild transfers ownership of node to f. Adding a node that already has
// a parent is a programming error and panics.
func (f *FolderData) AddChild(node FileNode) {
	if node.Parent() != nil {
		panic(fmt.Sprintf("gamelib: add %q to %q: node already owned by %q", node.Path(), f.path, node.Parent().Path()))
	}
	node.setParent(f)
	f.children = append(f.children, node)
}

// RemoveChild detaches node without deleting it. Removing a node f does not
// own panics.
func (f *FolderData) RemoveChild(node FileNode) {
	if node.Parent() != f {
		panic(fmt.Sprintf("gamelib: remove %q from %q: not its parent", node.Path(), f.path))
	}
	for i, child := range f.children {
		if child == node {
			f.children = append(f.children[:i], f.children[i+1:]...)
			node.setParent(nil)
			return
		}
	}
	panic(fmt.Sprintf("gamelib: remove %q from %q: missing from children", node.Path(), f.path))
}

// Delete detaches then deletes every child before detaching f itself.
func (f *FolderData) Delete() {
	for len(f.children) > 0 {
		child := f.children[len(f.children)-1]
		f.RemoveChild(child)
		child.Delete()
	}
	if f.parent != nil {
		f.parent.RemoveChild(f)
	}
	f.deleted = true
}

// Children returns a copy of the owned children in stored order.
func (f *FolderData) Children() []FileNode {
	out := make([]FileNode, len(f.children))
	copy(out, f.children)
	return out
}

func (f *FolderData) ChildCount() int { return len(f.children) }

// LastChild returns the tail of the child list, or nil.
func (f *FolderData) LastChild() FileNode {
	if len(f.children) == 0 {
		return nil
	}
	return f.children[len(f.children)-1]
}

// FilesRecursive flattens the subtree depth first, keeping nodes whose type
// matches typeMask. With displayedOnly the filter index of system (or of the
// system f is viewed through) hides filtered entries.
func (f *FolderData) FilesRecursive(typeMask FileType, displayedOnly bool, system *SystemData) []FileNode {
	if system == nil {
		system = f.system
	}
	var idx *FileFilterIndex
	if displayedOnly && system != nil {
		idx = system.ViewSystem().Index()
	}
	var out []FileNode
	f.collectFiles(typeMask, idx, &out)
	return out
}

func (f *FolderData) collectFiles(typeMask FileType, idx *FileFilterIndex, out *[]FileNode) {
	for _, child := range f.children {
		if child.Type()&typeMask != 0 {
			if idx == nil || !idx.IsFiltered() || idx.ShowFile(child) {
				*out = append(*out, child)
			}
		}
		if sub, ok := child.(*FolderData); ok {
			sub.collectFiles(typeMask, idx, out)
		}
	}
}

// CreateChildrenByFilenameMap indexes every leaf of the subtree by Key.
func (f *FolderData) CreateChildrenByFilenameMap(m map[string]FileNode) {
	for _, child := range f.children {
		if sub, ok := child.(*FolderData); ok {
			sub.CreateChildrenByFilenameMap(m)
			continue
		}
		m[child.Key()] = child
	}
}

// ChildrenByFilename indexes the direct children by Key.
func (f *FolderData) ChildrenByFilename() map[string]FileNode {
	m := make(map[string]FileNode, len(f.children))
	for _, child := range f.children {
		m[child.Key()] = child
	}
	return m
}

// FindByPath searches the subtree for a node whose absolute Path matches.
func (f *FolderData) FindByPath(path string) FileNode {
	path = filepath.Clean(path)
	for _, child := range f.children {
		if child.Path() == path {
			return child
		}
		if sub, ok := child.(*FolderData); ok {
			if found := sub.FindByPath(path); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindUniqueGame returns the only game of the subtree, or nil when the
// folder holds zero or several games.
func (f *FolderData) FindUniqueGame() FileNode {
	games := f.FilesRecursive(TypeGame, false, nil)
	if len(games) != 1 {
		return nil
	}
	return games[0]
}

// Sort orders the subtree in place by st.
func (f *FolderData) Sort(st SortType) {
	sortNodes(f.children, st)
	for _, child := range f.children {
		if sub, ok := child.(*FolderData); ok {
			sub.Sort(st)
		}
	}
}

// DisplayOptions are the view level switches applied by
// ChildrenListToDisplay.
type DisplayOptions struct {
	ShowHidden                bool
	KidMode                   bool
	CollapseSingleGameFolders bool
}

// ChildrenListToDisplay projects the direct children for rendering: filter
// index, hidden files, kid mode, single-game folder collapse, then a stable
// sort by the viewing system's sort type. It is rebuilt on every call.
func (f *FolderData) ChildrenListToDisplay(opts DisplayOptions) []FileNode {
	viewSys := f.system.ViewSystem()
	idx := viewSys.Index()
	filtered := idx.IsFiltered()

	visible := func(node FileNode) bool {
		if filtered && !idx.ShowFile(node) {
			return false
		}
		md := node.Metadata()
		if !opts.ShowHidden && md.Bool(MetaHidden) {
			return false
		}
		if opts.KidMode && !md.Bool(MetaKidGame) {
			return false
		}
		return true
	}

	out := make([]FileNode, 0, len(f.children))
	for _, child := range f.children {
		if folder, ok := child.(*FolderData); ok && opts.CollapseSingleGameFolders {
			if folder.ChildCount() == 0 {
				continue
			}
			if game := folder.FindUniqueGame(); game != nil {
				if visible(game) {
					out = append(out, game)
				}
				continue
			}
			if filtered && !idx.ShowFile(child) {
				continue
			}
			out = append(out, child)
			continue
		}
		if child.Type() == TypeFolder {
			if filtered && !idx.ShowFile(child) {
				continue
			}
			if !opts.ShowHidden && child.Metadata().Bool(MetaHidden) {
				continue
			}
			out = append(out, child)
			continue
		}
		if visible(child) {
			out = append(out, child)
		}
	}

	st := viewSys.SortType()
	sort.SliceStable(out, func(i, j int) bool { return st.less(out[i], out[j]) })
	if !st.Ascending {
		reverseNodes(out)
	}
	return out
}

func reverseNodes(nodes []FileNode) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
