package metadata

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GamelistFileName is the per-system metadata file kept at a system root.
const GamelistFileName = "gamelist.xml"

// GamelistDocument is the decoded form of an EmulationStation gamelist.xml.
type GamelistDocument struct {
	XMLName xml.Name         `xml:"gameList"`
	Folders []GamelistFolder `xml:"folder,omitempty"`
	Games   []GamelistEntry  `xml:"game"`
}

// GamelistEntry holds the metadata of one game. Paths are usually written
// relative to the system root ("./sub/game.zip").
type GamelistEntry struct {
	ID               string `xml:"id,attr,omitempty"`
	Source           string `xml:"source,attr,omitempty"`
	Path             string `xml:"path"`
	Name             string `xml:"name,omitempty"`
	SortName         string `xml:"sortname,omitempty"`
	Description      string `xml:"desc,omitempty"`
	Image            string `xml:"image,omitempty"`
	Thumbnail        string `xml:"thumbnail,omitempty"`
	Marquee          string `xml:"marquee,omitempty"`
	Video            string `xml:"video,omitempty"`
	Rating           string `xml:"rating,omitempty"`
	ReleaseDate      string `xml:"releasedate,omitempty"`
	Developer        string `xml:"developer,omitempty"`
	Publisher        string `xml:"publisher,omitempty"`
	Genre            string `xml:"genre,omitempty"`
	Players          string `xml:"players,omitempty"`
	PlayCount        string `xml:"playcount,omitempty"`
	LastPlayed       string `xml:"lastplayed,omitempty"`
	Favorite         bool   `xml:"favorite,omitempty"`
	Hidden           bool   `xml:"hidden,omitempty"`
	KidGame          bool   `xml:"kidgame,omitempty"`
	ArcadeSystemName string `xml:"arcadesystemname,omitempty"`
	Lang             string `xml:"lang,omitempty"`
	Region           string `xml:"region,omitempty"`
	MD5              string `xml:"md5,omitempty"`
	CRC32            string `xml:"crc32,omitempty"`
}

// GamelistFolder holds the metadata ES keeps for sub folders.
type GamelistFolder struct {
	Path        string `xml:"path"`
	Name        string `xml:"name,omitempty"`
	Description string `xml:"desc,omitempty"`
	Image       string `xml:"image,omitempty"`
	Thumbnail   string `xml:"thumbnail,omitempty"`
	Video       string `xml:"video,omitempty"`
	ReleaseDate string `xml:"releasedate,omitempty"`
	Developer   string `xml:"developer,omitempty"`
	Genre       string `xml:"genre,omitempty"`
	Players     string `xml:"players,omitempty"`
	Hidden      bool   `xml:"hidden,omitempty"`
}

// ParseGamelistFile opens and decodes a gamelist.xml file.
func ParseGamelistFile(path string) (*GamelistDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gamelist %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ParseGamelist(f)
	if err != nil {
		return nil, fmt.Errorf("decode gamelist %s: %w", path, err)
	}
	return doc, nil
}

// ParseGamelist decodes gamelist XML and trims every text field.
func ParseGamelist(r io.Reader) (*GamelistDocument, error) {
	var doc GamelistDocument
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	for i := range doc.Games {
		doc.Games[i].trim()
	}
	for i := range doc.Folders {
		doc.Folders[i].trim()
	}
	return &doc, nil
}

// WriteGamelistFile serialises the document to path, creating parent dirs.
// The file is written to a temp sibling first and renamed into place.
func WriteGamelistFile(path string, doc *GamelistDocument) error {
	if doc == nil {
		return fmt.Errorf("gamelist document is nil")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("invalid gamelist output path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure gamelist dir %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "gamelist-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp gamelist in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := encodeGamelist(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp gamelist %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename gamelist %s: %w", path, err)
	}
	return nil
}

func encodeGamelist(w io.Writer, doc *GamelistDocument) error {
	out := GamelistDocument{
		Folders: make([]GamelistFolder, 0, len(doc.Folders)),
		Games:   make([]GamelistEntry, 0, len(doc.Games)),
	}
	for _, folder := range doc.Folders {
		folder.trim()
		out.Folders = append(out.Folders, folder)
	}
	for _, game := range doc.Games {
		game.trim()
		out.Games = append(out.Games, game)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode gamelist xml: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return fmt.Errorf("flush gamelist xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("terminate gamelist xml: %w", err)
	}
	return nil
}

func (e *GamelistEntry) trim() {
	for _, field := range []*string{
		&e.ID, &e.Source, &e.Path, &e.Name, &e.SortName, &e.Description,
		&e.Image, &e.Thumbnail, &e.Marquee, &e.Video, &e.Rating,
		&e.ReleaseDate, &e.Developer, &e.Publisher, &e.Genre, &e.Players,
		&e.PlayCount, &e.LastPlayed, &e.ArcadeSystemName, &e.Lang,
		&e.Region, &e.MD5, &e.CRC32,
	} {
		*field = strings.TrimSpace(*field)
	}
}

func (f *GamelistFolder) trim() {
	for _, field := range []*string{
		&f.Path, &f.Name, &f.Description, &f.Image, &f.Thumbnail, &f.Video,
		&f.ReleaseDate, &f.Developer, &f.Genre, &f.Players,
	} {
		*field = strings.TrimSpace(*field)
	}
}
