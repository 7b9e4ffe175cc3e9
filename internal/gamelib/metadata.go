package gamelib

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Metadata keys, named after the gamelist.xml elements they come from.
const (
	MetaName             = "name"
	MetaSortName         = "sortname"
	MetaDesc             = "desc"
	MetaImage            = "image"
	MetaThumbnail        = "thumbnail"
	MetaMarquee          = "marquee"
	MetaVideo            = "video"
	MetaRating           = "rating"
	MetaReleaseDate      = "releasedate"
	MetaDeveloper        = "developer"
	MetaPublisher        = "publisher"
	MetaGenre            = "genre"
	MetaPlayers          = "players"
	MetaPlayCount        = "playcount"
	MetaLastPlayed       = "lastplayed"
	MetaFavorite         = "favorite"
	MetaHidden           = "hidden"
	MetaKidGame          = "kidgame"
	MetaArcadeSystemName = "arcadesystemname"
	MetaLang             = "lang"
	MetaRegion           = "region"
	MetaMD5              = "md5"
	MetaCRC32            = "crc32"
)

// TimeLayout is the lastplayed / releasedate format used by gamelists.
const TimeLayout = "20060102T150405"

// Metadata is the mutable record attached to a real game or folder.
// Values are kept as strings, the way they are stored on disk.
type Metadata struct {
	values  map[string]string
	changed bool
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

func (m *Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m.values[key]
}

// Set stores value and marks the record as changed when it differs.
func (m *Metadata) Set(key, value string) {
	if m.values[key] == value {
		return
	}
	if value == "" {
		delete(m.values, key)
	} else {
		m.values[key] = value
	}
	m.changed = true
}

func (m *Metadata) Int(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(m.Get(key)))
	if err != nil {
		return 0
	}
	return v
}

func (m *Metadata) Float(key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(m.Get(key)), 64)
	if err != nil {
		return 0
	}
	return v
}

// Bool is true only for the literal "true".
func (m *Metadata) Bool(key string) bool {
	return m.Get(key) == "true"
}

func (m *Metadata) SetBool(key string, v bool) {
	if v {
		m.Set(key, "true")
		return
	}
	m.Set(key, "false")
}

// Time parses a TimeLayout value, returning the zero time when unset.
func (m *Metadata) Time(key string) time.Time {
	v := strings.TrimSpace(m.Get(key))
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(TimeLayout, v, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (m *Metadata) SetTime(key string, t time.Time) {
	m.Set(key, t.Format(TimeLayout))
}

// Changed reports whether any value was modified since the last reset.
func (m *Metadata) Changed() bool {
	return m != nil && m.changed
}

func (m *Metadata) ResetChanged() {
	m.changed = false
}

// Keys returns the set keys in sorted order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
