package collection

import (
	"strconv"
	"strings"

	"github.com/xxxsen/retrocoll/internal/gamelib"
	"github.com/xxxsen/retrocoll/internal/pathutil"
)

// openPlayers stands in for the missing upper bound of "N+".
const openPlayers = 999

var playerBuckets = []int{4, 2}

// ParsePlayers reads the "players" field in its three shapes: "N", "N-M"
// and "N+".
func ParsePlayers(value string) (lo, hi int, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, false
	}
	if strings.HasSuffix(value, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(value, "+")))
		if err != nil || n < 0 {
			return 0, 0, false
		}
		return n, openPlayers, true
	}
	if first, second, found := strings.Cut(value, "-"); found {
		a, errA := strconv.Atoi(strings.TrimSpace(first))
		b, errB := strconv.Atoi(strings.TrimSpace(second))
		if errA != nil || errB != nil || a < 0 || b < a {
			return 0, 0, false
		}
		return a, b, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return n, n, true
}

// PlayerBucket returns the player collection (2 or 4) a game belongs to, or
// 0. A range covering both buckets lands in the larger one.
func PlayerBucket(players string) int {
	lo, hi, ok := ParsePlayers(players)
	if !ok {
		return 0
	}
	for _, b := range playerBuckets {
		if b >= lo && b <= hi {
			return b
		}
	}
	return 0
}

// includeInAutoCollections is the system level gate every auto collection
// except favorites honours.
func includeInAutoCollections(game *gamelib.FileData) bool {
	return game.System() != nil && game.System().IsGameSystem()
}

func isArcadeGame(game *gamelib.FileData) bool {
	return game.System() != nil && game.System().Environment().HasPlatform(gamelib.PlatformArcade)
}

// matchesDecl evaluates the inclusion predicate of decl for a real game.
func matchesDecl(decl Decl, game *gamelib.FileData, vertical VerticalLookup) bool {
	md := game.Metadata()
	if decl.Type == AutoFavorites {
		return md.Bool(gamelib.MetaFavorite)
	}
	if !includeInAutoCollections(game) {
		return false
	}
	switch decl.Type {
	case AutoAllGames:
		return true
	case AutoLastPlayed:
		return md.Int(gamelib.MetaPlayCount) > 0
	case AutoNeverPlayed:
		return !(md.Int(gamelib.MetaPlayCount) > 0)
	case Auto2Players:
		return PlayerBucket(md.Get(gamelib.MetaPlayers)) == 2
	case Auto4Players:
		return PlayerBucket(md.Get(gamelib.MetaPlayers)) == 4
	case AutoVerticalArcade:
		return vertical.IsVertical(pathutil.Stem(game.Path()))
	case AutoArcade:
		return isArcadeGame(game)
	case AutoArcadeVendor:
		return isArcadeGame(game) && strings.EqualFold(strings.TrimSpace(md.Get(gamelib.MetaArcadeSystemName)), decl.VendorTag)
	}
	return false
}
