// Package collection builds virtual collections on top of the real systems:
// auto collections derived from metadata and custom collections authored by
// the user and persisted as custom-<name>.cfg files.
package collection

import "strings"

// CollectionType tags each built-in collection kind.
type CollectionType int

const (
	AutoAllGames CollectionType = iota
	AutoLastPlayed
	AutoFavorites
	AutoNeverPlayed
	Auto2Players
	Auto4Players
	AutoVerticalArcade
	AutoArcade
	AutoArcadeVendor
	CustomCollection
)

// LastPlayedMax bounds the recently played collection.
const LastPlayedMax = 50

// Decl describes one collection kind. Values are immutable; accessors hand
// out copies.
type Decl struct {
	Type           CollectionType
	Name           string
	LongName       string
	DefaultSort    string
	ThemeFolder    string
	IsCustom       bool
	DisplayIfEmpty bool
	// VendorTag is set for the per-vendor arcade collections only.
	VendorTag string
}

// Vendor is one arcade board or manufacturer with its own auto collection.
type Vendor struct {
	Tag      string
	LongName string
}

var vendors = []Vendor{
	{"cps1", "Capcom Play System"},
	{"cps2", "Capcom Play System II"},
	{"cps3", "Capcom Play System III"},
	{"neogeo", "Neo-Geo"},
	{"naomi", "Naomi"},
	{"naomi2", "Naomi 2"},
	{"atomiswave", "Atomiswave"},
	{"model2", "Sega Model 2"},
	{"model3", "Sega Model 3"},
	{"konami", "Konami"},
	{"namco", "Namco"},
	{"taito", "Taito"},
	{"sega", "Sega"},
	{"irem", "Irem"},
	{"midway", "Midway"},
	{"toaplan", "Toaplan"},
	{"dataeast", "Data East"},
	{"cave", "Cave"},
	{"igs", "IGS"},
	{"snk", "SNK"},
	{"capcom", "Capcom"},
	{"nintendo", "Nintendo"},
	{"atari", "Atari"},
	{"kaneko", "Kaneko"},
	{"technos", "Technos"},
	{"psikyo", "Psikyo"},
}

const (
	sortByName       = "filename, ascending"
	sortByLastPlayed = "last played, descending"
	vendorNamePrefix = "arcade-"
)

var autoDecls = buildAutoDecls()

var customTemplate = Decl{
	Type:           CustomCollection,
	Name:           "collections",
	LongName:       "collections",
	DefaultSort:    sortByName,
	ThemeFolder:    "custom-collections",
	IsCustom:       true,
	DisplayIfEmpty: true,
}

func buildAutoDecls() []Decl {
	decls := []Decl{
		{Type: AutoAllGames, Name: "all", LongName: "all games", DefaultSort: sortByName, ThemeFolder: "auto-allgames", DisplayIfEmpty: true},
		{Type: AutoLastPlayed, Name: "recent", LongName: "last played", DefaultSort: sortByLastPlayed, ThemeFolder: "auto-lastplayed", DisplayIfEmpty: true},
		{Type: AutoFavorites, Name: "favorites", LongName: "favorites", DefaultSort: sortByName, ThemeFolder: "auto-favorites", DisplayIfEmpty: true},
		{Type: AutoNeverPlayed, Name: "neverplayed", LongName: "never played", DefaultSort: sortByName, ThemeFolder: "auto-neverplayed"},
		{Type: Auto2Players, Name: "2players", LongName: "2 players", DefaultSort: sortByName, ThemeFolder: "auto-at2players"},
		{Type: Auto4Players, Name: "4players", LongName: "4 players", DefaultSort: sortByName, ThemeFolder: "auto-at4players"},
		{Type: AutoVerticalArcade, Name: "vertical", LongName: "vertical arcade", DefaultSort: sortByName, ThemeFolder: "auto-verticalarcade"},
		{Type: AutoArcade, Name: "arcade", LongName: "arcade", DefaultSort: sortByName, ThemeFolder: "auto-arcade"},
	}
	for _, v := range vendors {
		decls = append(decls, Decl{
			Type:        AutoArcadeVendor,
			Name:        vendorNamePrefix + v.Tag,
			LongName:    v.LongName,
			DefaultSort: sortByName,
			ThemeFolder: "auto-" + v.Tag,
			VendorTag:   v.Tag,
		})
	}
	return decls
}

// Decls returns the auto collection declarations in display order.
func Decls() []Decl {
	out := make([]Decl, len(autoDecls))
	copy(out, autoDecls)
	return out
}

// CustomTemplate is the declaration every custom collection is stamped from.
func CustomTemplate() Decl { return customTemplate }

// FindDecl looks an auto declaration up by name.
func FindDecl(name string) (Decl, bool) {
	for _, d := range autoDecls {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Decl{}, false
}

// Vendors returns the arcade vendor table.
func Vendors() []Vendor {
	out := make([]Vendor, len(vendors))
	copy(out, vendors)
	return out
}

// IsVendorTag reports whether tag has a vendor collection.
func IsVendorTag(tag string) bool {
	for _, v := range vendors {
		if v.Tag == tag {
			return true
		}
	}
	return false
}
