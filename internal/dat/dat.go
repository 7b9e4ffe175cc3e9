// Package dat decodes the MAME and FinalBurn Neo DAT files arcade
// collections are derived from.
package dat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// MameDataFile is the root node of a MAME DAT file.
type MameDataFile struct {
	XMLName  xml.Name      `xml:"datafile"`
	Header   Header        `xml:"header"`
	Machines []MameMachine `xml:"machine"`
}

// MameMachine is one machine entry; only the fields collections use are
// decoded.
type MameMachine struct {
	Name         string        `xml:"name,attr"`
	SourceFile   string        `xml:"sourcefile,attr,omitempty"`
	CloneOf      string        `xml:"cloneof,attr,omitempty"`
	IsBios       string        `xml:"isbios,attr,omitempty"`
	IsDevice     string        `xml:"isdevice,attr,omitempty"`
	Runnable     string        `xml:"runnable,attr,omitempty"`
	Description  string        `xml:"description"`
	Year         string        `xml:"year"`
	Manufacturer string        `xml:"manufacturer"`
	Displays     []MameDisplay `xml:"display"`
	Driver       *Driver       `xml:"driver"`
}

// MameDisplay describes one screen of a machine.
type MameDisplay struct {
	Type   string `xml:"type,attr,omitempty"`
	Rotate int    `xml:"rotate,attr,omitempty"`
	Width  int    `xml:"width,attr,omitempty"`
	Height int    `xml:"height,attr,omitempty"`
}

// IsVertical reports whether the primary screen is rotated by 90 or 270
// degrees.
func (m *MameMachine) IsVertical() bool {
	if len(m.Displays) == 0 {
		return false
	}
	switch m.Displays[0].Rotate {
	case 90, 270:
		return true
	}
	return false
}

// IsPlayable filters out BIOS sets, devices and non runnable machines.
func (m *MameMachine) IsPlayable() bool {
	return m.IsBios != "yes" && m.IsDevice != "yes" && m.Runnable != "no"
}

// DataFile is the root node of a FinalBurn Neo DAT file.
type DataFile struct {
	XMLName xml.Name `xml:"datafile"`
	Header  Header   `xml:"header"`
	Games   []Game   `xml:"game"`
}

// Game is one FinalBurn Neo rom set.
type Game struct {
	Name         string  `xml:"name,attr"`
	SourceFile   string  `xml:"sourcefile,attr,omitempty"`
	IsBios       string  `xml:"isbios,attr,omitempty"`
	CloneOf      string  `xml:"cloneof,attr,omitempty"`
	Description  string  `xml:"description"`
	Year         string  `xml:"year"`
	Manufacturer string  `xml:"manufacturer"`
	Video        *Video  `xml:"video"`
	Driver       *Driver `xml:"driver"`
}

// Video captures display information for the game.
type Video struct {
	Type        string `xml:"type,attr,omitempty"`
	Orientation string `xml:"orientation,attr,omitempty"`
	Width       int    `xml:"width,attr,omitempty"`
	Height      int    `xml:"height,attr,omitempty"`
}

// IsVertical reports a vertical video orientation.
func (g *Game) IsVertical() bool {
	return g.Video != nil && g.Video.Orientation == "vertical"
}

// Header carries top-level metadata for the DAT.
type Header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
}

// Driver holds driver status info.
type Driver struct {
	Status string `xml:"status,attr,omitempty"`
}

// ParseMameFile opens and parses a MAME DAT file.
func ParseMameFile(path string) (*MameDataFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mame dat %s: %w", path, err)
	}
	defer f.Close()
	return ParseMame(f)
}

// ParseMame decodes MAME DAT XML.
func ParseMame(r io.Reader) (*MameDataFile, error) {
	var df MameDataFile
	if err := decode(r, &df); err != nil {
		return nil, fmt.Errorf("decode mame dat: %w", err)
	}
	return &df, nil
}

// ParseFBNeoFile opens and parses a FinalBurn Neo DAT file.
func ParseFBNeoFile(path string) (*DataFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fbneo dat %s: %w", path, err)
	}
	defer f.Close()
	return ParseFBNeo(f)
}

// ParseFBNeo decodes FinalBurn Neo DAT XML.
func ParseFBNeo(r io.Reader) (*DataFile, error) {
	var df DataFile
	if err := decode(r, &df); err != nil {
		return nil, fmt.Errorf("decode fbneo dat: %w", err)
	}
	return &df, nil
}

func decode(r io.Reader, v any) error {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false // DAT files reference a DTD
	return decoder.Decode(v)
}
