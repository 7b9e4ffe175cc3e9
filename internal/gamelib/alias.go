package gamelib

import (
	"path/filepath"
	"strings"
)

// sourceRef is a non-owning edge to a real game. It never keeps a deleted
// node resolvable.
type sourceRef struct {
	node *FileData
}

func (r sourceRef) resolve() *FileData {
	if r.node == nil || r.node.deleted {
		return nil
	}
	return r.node
}

// CollectionFileData stands in for a real game inside a collection. It owns
// nothing but its own position in the collection tree; name, path and
// metadata are read from the source.
type CollectionFileData struct {
	fileBase
	source     sourceRef
	sourcePath string
}

// NewCollectionFileData builds a detached alias of source for collection.
func NewCollectionFileData(source *FileData, collection *SystemData) *CollectionFileData {
	return &CollectionFileData{
		fileBase:   fileBase{system: collection},
		source:     sourceRef{node: source},
		sourcePath: source.Path(),
	}
}

func (c *CollectionFileData) Type() FileType { return TypeGame }

// Key is the absolute source path so aliases of one game never collide with
// each other or with relative keys of real games.
func (c *CollectionFileData) Key() string { return c.sourcePath }

func (c *CollectionFileData) Path() string { return c.sourcePath }

func (c *CollectionFileData) Source() *FileData { return c.source.resolve() }

// Metadata returns the source record, or an empty one once the source is gone.
func (c *CollectionFileData) Metadata() *Metadata {
	if src := c.source.resolve(); src != nil {
		return src.Metadata()
	}
	return NewMetadata()
}

// Name is the source name, suffixed with the source system when the
// collection shows system info.
func (c *CollectionFileData) Name() string {
	src := c.source.resolve()
	if src == nil {
		base := filepath.Base(c.sourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	name := src.Name()
	if c.system != nil && c.system.showSourceSystem && src.System() != nil {
		name += " [" + strings.ToUpper(src.System().Name()) + "]"
	}
	return name
}

// Delete detaches the alias; the source is left untouched.
func (c *CollectionFileData) Delete() {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.deleted = true
}
