package collection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xxxsen/retrocoll/internal/gamelib"
)

const (
	variousValue       = "Various"
	emptyDescription   = "This collection is empty."
	descriptionSamples = 3
)

// UpdateCollectionFolderMetadata recomputes the collection level metadata
// from the games currently in sys: description, shared or "Various"
// genre and developer, highest players and rating, earliest release date and
// the media of the first game that has some.
func (r *Registry) UpdateCollectionFolderMetadata(sys *gamelib.SystemData) {
	md := sys.Root().Metadata()
	games := sys.Root().FilesRecursive(gamelib.TypeGame, false, nil)

	for _, key := range []string{
		gamelib.MetaGenre, gamelib.MetaDeveloper, gamelib.MetaPlayers,
		gamelib.MetaRating, gamelib.MetaReleaseDate, gamelib.MetaVideo,
		gamelib.MetaImage, gamelib.MetaThumbnail,
	} {
		md.Set(key, "")
	}
	if len(games) == 0 {
		md.Set(gamelib.MetaDesc, emptyDescription)
		return
	}

	var (
		genre, developer     string
		mixedGenre, mixedDev bool
		players, release     string
		rating               float64
		samples              []string
	)
	playersMax := -1
	for i, game := range games {
		gmd := game.Metadata()
		if i < descriptionSamples {
			samples = append(samples, "'"+game.Name()+"'")
		}
		genre, mixedGenre = mergeCommon(genre, mixedGenre, gmd.Get(gamelib.MetaGenre), i == 0)
		developer, mixedDev = mergeCommon(developer, mixedDev, gmd.Get(gamelib.MetaDeveloper), i == 0)
		if _, hi, ok := ParsePlayers(gmd.Get(gamelib.MetaPlayers)); ok && hi > playersMax {
			playersMax = hi
			players = gmd.Get(gamelib.MetaPlayers)
		}
		if v := gmd.Float(gamelib.MetaRating); v > rating {
			rating = v
		}
		if v := gmd.Get(gamelib.MetaReleaseDate); v != "" && (release == "" || v < release) {
			release = v
		}
		for _, key := range []string{gamelib.MetaVideo, gamelib.MetaImage, gamelib.MetaThumbnail} {
			if md.Get(key) == "" && gmd.Get(key) != "" {
				md.Set(key, gmd.Get(key))
			}
		}
	}

	if mixedGenre {
		genre = variousValue
	}
	if mixedDev {
		developer = variousValue
	}
	md.Set(gamelib.MetaGenre, genre)
	md.Set(gamelib.MetaDeveloper, developer)
	md.Set(gamelib.MetaPlayers, players)
	if rating > 0 {
		md.Set(gamelib.MetaRating, strconv.FormatFloat(rating, 'f', -1, 64))
	}
	md.Set(gamelib.MetaReleaseDate, release)
	md.Set(gamelib.MetaDesc, describeCollection(len(games), samples))
}

// mergeCommon keeps the first non-empty value and flags any later
// difference.
func mergeCommon(current string, mixed bool, value string, first bool) (string, bool) {
	if mixed {
		return current, true
	}
	if first {
		return value, false
	}
	if !strings.EqualFold(current, value) {
		return current, true
	}
	return current, false
}

func describeCollection(count int, samples []string) string {
	noun := "games"
	if count == 1 {
		noun = "game"
	}
	desc := fmt.Sprintf("This collection contains %d %s, including %s", count, noun, strings.Join(samples, ", "))
	if count > len(samples) {
		return desc + " among other titles."
	}
	return desc + "."
}
