/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/


package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Theme holds the colors and glyphs the canvas draws with. Colors are names
// or hex values understood by tcell.GetColor.
type Theme struct {
	Background string
	Feature    string
	Active     string
	Hover      string
	Disabled   string
	Vertex     string
	Draft      string
	Status     string

	// Fill is drawn in the cells inside polygons, Line along lines and ring
	// boundaries and Point at vertex handles.
	Fill  string
	Line  string
	Point string
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "black",
		Feature:    "silver",
		Active:     "yellow",
		Hover:      "aqua",
		Disabled:   "gray",
		Vertex:     "red",
		Draft:      "lime",
		Status:     "white",
		Fill:       "·",
		Line:       "•",
		Point:      "■",
	}
}

// DecodeTheme reads a TOML theme from r. Fields missing from r keep their
// default values.
func DecodeTheme(r io.Reader) (Theme, error) {
	t := DefaultTheme()
	if _, err := toml.DecodeReader(r, &t); err != nil {
		return t, fmt.Errorf("terminal: decoding theme: %v", err)
	}
	for name, c := range map[string]string{
		"Background": t.Background, "Feature": t.Feature, "Active": t.Active,
		"Hover": t.Hover, "Disabled": t.Disabled, "Vertex": t.Vertex,
		"Draft": t.Draft, "Status": t.Status,
	} {
		if tcell.GetColor(c) == tcell.ColorDefault {
			return t, fmt.Errorf("terminal: invalid %s color %q", name, c)
		}
	}
	for name, g := range map[string]string{"Fill": t.Fill, "Line": t.Line, "Point": t.Point} {
		if len([]rune(g)) != 1 {
			return t, fmt.Errorf("terminal: %s glyph must be one character, not %q", name, g)
		}
	}
	return t, nil
}

// LoadTheme reads a TOML theme from the named file.
func LoadTheme(path string) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultTheme(), fmt.Errorf("terminal: opening theme: %v", err)
	}
	defer f.Close()
	return DecodeTheme(f)
}

func (t Theme) style(fg string) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.GetColor(fg)).
		Background(tcell.GetColor(t.Background))
}

func glyph(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
