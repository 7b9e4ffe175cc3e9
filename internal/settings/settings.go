package settings

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	KeyCollectionSystemsAuto      = "CollectionSystemsAuto"
	KeyCollectionSystemsCustom    = "CollectionSystemsCustom"
	KeySortAllSystems             = "SortAllSystems"
	KeyThreadedLoading            = "ThreadedLoading"
	KeyUseCustomCollectionsSystem = "UseCustomCollectionsSystem"
	KeyCollectionShowSystemInfo   = "CollectionShowSystemInfo"
	KeyShowHiddenFiles            = "ShowHiddenFiles"
	KeyUIMode                     = "UIMode"
	KeyCollapseSingleGameFolders  = "CollapseSingleGameFolders"
)

const (
	UIModeFull = "Full"
	UIModeKid  = "Kid"
)

// Store is the key/value settings surface the rest of the application reads.
type Store interface {
	String(key string) string
	SetString(key, value string)
	Bool(key string) bool
	SetBool(key string, value bool)
}

// Defaults returns the built-in value of every known key.
func Defaults() map[string]string {
	return map[string]string{
		KeyCollectionSystemsAuto:      "",
		KeyCollectionSystemsCustom:    "",
		KeySortAllSystems:             "false",
		KeyThreadedLoading:            "true",
		KeyUseCustomCollectionsSystem: "true",
		KeyCollectionShowSystemInfo:   "true",
		KeyShowHiddenFiles:            "true",
		KeyUIMode:                     UIModeFull,
		KeyCollapseSingleGameFolders:  "false",
	}
}

// Memory is a concurrency safe in-memory Store seeded with Defaults.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: Defaults()}
}

func (m *Memory) String(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *Memory) SetString(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) Bool(key string) bool {
	return parseBool(m.String(key))
}

func (m *Memory) SetBool(key string, value bool) {
	m.SetString(key, formatBool(value))
}

// Backend persists settings rows.
type Backend interface {
	LoadAll(ctx context.Context) (map[string]string, error)
	Put(ctx context.Context, key, value string) error
}

// Persistent keeps an in-memory copy and writes every change through to the
// backend. Write failures are logged; the in-memory value still changes.
type Persistent struct {
	*Memory
	backend Backend
}

// NewPersistent loads stored values over the defaults.
func NewPersistent(ctx context.Context, backend Backend) (*Persistent, error) {
	stored, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	mem := NewMemory()
	for k, v := range stored {
		mem.values[k] = v
	}
	return &Persistent{Memory: mem, backend: backend}, nil
}

func (p *Persistent) SetString(key, value string) {
	if p.Memory.String(key) == value {
		return
	}
	p.Memory.SetString(key, value)
	ctx := context.Background()
	if err := p.backend.Put(ctx, key, value); err != nil {
		logutil.GetLogger(ctx).Error("persist setting failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (p *Persistent) SetBool(key string, value bool) {
	p.SetString(key, formatBool(value))
}

// SplitList parses a comma separated settings value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinList is the inverse of SplitList; names are sorted for stable output.
func JoinList(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
