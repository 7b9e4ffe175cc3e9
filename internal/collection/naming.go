package collection

import (
	"fmt"
	"strings"
)

// DefaultCollectionName replaces a candidate left empty by sanitising.
const DefaultCollectionName = "New Collection"

func allowedNameRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	}
	return strings.ContainsRune("-[]() ", r)
}

// SanitizeCollectionName keeps letters, digits, space and "-[]()".
func SanitizeCollectionName(candidate string) string {
	var b strings.Builder
	for _, r := range candidate {
		if allowedNameRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// GetValidNewCollectionName sanitises candidate and appends " (n)" until the
// name collides with no system, collection, or theme folder.
func (r *Registry) GetValidNewCollectionName(candidate string) string {
	base := SanitizeCollectionName(candidate)
	if base == "" {
		base = DefaultCollectionName
	}
	taken := r.namesInUse()
	name := base
	for n := 1; ; n++ {
		if _, ok := taken[strings.ToLower(name)]; !ok {
			return name
		}
		name = fmt.Sprintf("%s (%d)", base, n)
	}
}

func (r *Registry) namesInUse() map[string]struct{} {
	taken := make(map[string]struct{})
	add := func(names ...string) {
		for _, n := range names {
			if n != "" {
				taken[strings.ToLower(n)] = struct{}{}
			}
		}
	}
	for _, sys := range r.systems.All() {
		add(sys.Name(), sys.ThemeFolder())
	}
	for _, decl := range autoDecls {
		add(decl.Name, decl.ThemeFolder)
	}
	tmpl := CustomTemplate()
	add(tmpl.Name, tmpl.ThemeFolder)
	for name, rec := range r.customs {
		add(name, rec.System.ThemeFolder())
	}
	add(r.themes.Folders()...)
	return taken
}
