package sortkey

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var pinyinArgs = pinyin.NewArgs()

// Key builds a case-folded sort key for a display name. Han characters are
// replaced by their toneless pinyin so CJK titles interleave with latin ones.
func Key(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			if py := pinyin.LazyPinyin(string(r), pinyinArgs); len(py) > 0 {
				sb.WriteString(py[0])
				continue
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// Less reports whether a sorts before b by Key, falling back to the raw
// strings so the ordering stays total.
func Less(a, b string) bool {
	ka, kb := Key(a), Key(b)
	if ka != kb {
		return ka < kb
	}
	return a < b
}
