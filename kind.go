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

package geoedit

import (
	"fmt"
	"strings"
)

// Kind is the type of an editable geometry.
type Kind int

// These are the editable geometry kinds.
const (
	Line Kind = iota
	Polygon
	MultiLine
	MultiPolygon
)

// String returns the GeoJSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Line:
		return "LineString"
	case Polygon:
		return "Polygon"
	case MultiLine:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	default:
		return "Unknown"
	}
}

// ParseKind parses a kind from either its GeoJSON name or its short name
// ("line", "polygon", "multiline", "multipolygon"), ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "linestring":
		return Line, nil
	case "polygon":
		return Polygon, nil
	case "multiline", "multilinestring":
		return MultiLine, nil
	case "multipolygon":
		return MultiPolygon, nil
	}
	return Line, fmt.Errorf("geoedit: unknown geometry kind %q", s)
}

// Family groups a singular kind with its plural sibling.
type Family int

// These are the geometry families.
const (
	LineFamily Family = iota
	PlaneFamily
)

// String returns the family name.
func (f Family) String() string {
	if f == PlaneFamily {
		return "Plane"
	}
	return "Line"
}

// Family returns the family k belongs to.
func (k Kind) Family() Family {
	if k == Polygon || k == MultiPolygon {
		return PlaneFamily
	}
	return LineFamily
}

// Plural reports whether k is the plural member of its family.
func (k Kind) Plural() bool {
	return k == MultiLine || k == MultiPolygon
}

// Singular returns the singular member of the family.
func (f Family) Singular() Kind {
	if f == PlaneFamily {
		return Polygon
	}
	return Line
}

// Plural returns the plural member of the family.
func (f Family) Plural() Kind {
	if f == PlaneFamily {
		return MultiPolygon
	}
	return MultiLine
}

// Kinds is a set of permitted geometry kinds.
type Kinds []Kind

// Has reports whether k is in the set.
func (ks Kinds) Has(k Kind) bool {
	for _, kk := range ks {
		if kk == k {
			return true
		}
	}
	return false
}

// HasFamily reports whether any member of f is in the set.
func (ks Kinds) HasFamily(f Family) bool {
	return ks.Has(f.Singular()) || ks.Has(f.Plural())
}
