package gamelib

import (
	"path/filepath"
	"strings"

	"github.com/xxxsen/retrocoll/internal/pathutil"
)

// FileType is a bitmask so traversal can ask for several kinds at once.
type FileType int

const (
	TypeGame        FileType = 1
	TypeFolder      FileType = 2
	TypePlaceholder FileType = 4
)

// FileNode is any entry of a system tree: a real game or placeholder
// (*FileData), a folder (*FolderData) or a collection alias
// (*CollectionFileData).
type FileNode interface {
	Type() FileType
	// Key identifies the node inside lookup maps. Real nodes use their path
	// relative to the system root, aliases the absolute source path.
	Key() string
	// Path is the absolute path of the file (of the source, for aliases).
	Path() string
	Name() string
	Metadata() *Metadata
	// System is the system the node is displayed in.
	System() *SystemData
	// Source resolves the real node behind the entry; nil when the entry is
	// an alias whose source was deleted.
	Source() *FileData
	Parent() *FolderData
	// Delete detaches the node from its parent and releases it.
	Delete()

	setParent(parent *FolderData)
}

type fileBase struct {
	system  *SystemData
	parent  *FolderData
	deleted bool
}

func (b *fileBase) System() *SystemData { return b.system }

func (b *fileBase) Parent() *FolderData { return b.parent }

func (b *fileBase) setParent(parent *FolderData) { b.parent = parent }

// FileData is a real game or placeholder owned by exactly one folder.
type FileData struct {
	fileBase
	fileType FileType
	path     string
	metadata *Metadata
}

// NewFileData builds a detached node for the absolute path.
func NewFileData(fileType FileType, path string, system *SystemData) *FileData {
	return &FileData{
		fileBase: fileBase{system: system},
		fileType: fileType,
		path:     filepath.Clean(path),
		metadata: NewMetadata(),
	}
}

func (f *FileData) Type() FileType { return f.fileType }

func (f *FileData) Path() string { return f.path }

func (f *FileData) Key() string {
	if f.system == nil || f.system.Environment() == nil || f.system.Environment().StartPath == "" {
		return filepath.Base(f.path)
	}
	rel, err := filepath.Rel(f.system.Environment().StartPath, f.path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(f.path)
	}
	return filepath.ToSlash(rel)
}

// Name is the metadata name, or the file stem when no name was scraped.
func (f *FileData) Name() string {
	if name := f.metadata.Get(MetaName); name != "" {
		return name
	}
	return pathutil.Stem(f.path)
}

func (f *FileData) Metadata() *Metadata { return f.metadata }

func (f *FileData) Source() *FileData {
	if f.deleted {
		return nil
	}
	return f
}

// Deleted reports whether Delete was called; aliases treat a deleted source
// as unresolvable.
func (f *FileData) Deleted() bool { return f.deleted }

func (f *FileData) Delete() {
	if f.parent != nil {
		f.parent.RemoveChild(f)
	}
	f.deleted = true
}

// SourceOf returns the real game behind node, following aliases.
func SourceOf(node FileNode) *FileData {
	if node == nil {
		return nil
	}
	return node.Source()
}
