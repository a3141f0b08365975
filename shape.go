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

// Package geoedit is an editing engine for collections of line and polygon
// geometries. It holds the path-addressed edit algebra that reshapes a single
// geometry (promoting and demoting between singular and multi-part kinds),
// the selection state tracker, and the decision functions that turn pointer
// and keyboard input into selections and drawing modes. Rendering and input
// plumbing are supplied through the Renderer interface.
package geoedit

import (
	"fmt"

	"github.com/ctessum/geom"
)

// Properties holds the user data attached to a shape. The editor never looks
// inside it.
type Properties map[string]interface{}

// Shape is one editable geometry.
type Shape struct {
	// Geom is one of geom.LineString, geom.Polygon, geom.MultiLineString
	// or geom.MultiPolygon. The concrete type is the shape's Kind.
	Geom geom.Geom

	Properties Properties
}

// NewShape returns an empty shape of the singular kind of family f.
func NewShape(f Family) *Shape {
	if f == PlaneFamily {
		return &Shape{Geom: geom.Polygon{}}
	}
	return &Shape{Geom: geom.LineString{}}
}

// NewLine returns a Line shape through the given points.
func NewLine(pts ...geom.Point) *Shape {
	return &Shape{Geom: geom.LineString(pts)}
}

// NewPolygon returns a Polygon shape with the given rings.
func NewPolygon(rings ...geom.Path) *Shape {
	return &Shape{Geom: geom.Polygon(rings)}
}

// Kind returns the kind of the shape.
func (s *Shape) Kind() Kind {
	k, _ := kindOf(s.Geom)
	return k
}

// Valid reports whether the shape holds one of the four editable geometry
// types.
func (s *Shape) Valid() bool {
	if s == nil {
		return false
	}
	_, ok := kindOf(s.Geom)
	return ok
}

// String returns a short description of the shape.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v%v", s.Kind(), s.Geom)
}

// Members returns the number of top-level entries in the shape: positions of
// a Line, rings of a Polygon, or members of a plural kind.
func (s *Shape) Members() int {
	switch g := s.Geom.(type) {
	case geom.LineString:
		return len(g)
	case geom.Polygon:
		return len(g)
	case geom.MultiLineString:
		return len(g)
	case geom.MultiPolygon:
		return len(g)
	}
	return 0
}

// Bounds returns the bounding box of the shape.
func (s *Shape) Bounds() *geom.Bounds {
	return s.Geom.Bounds()
}

func kindOf(g geom.Geom) (Kind, bool) {
	switch g.(type) {
	case geom.LineString:
		return Line, true
	case geom.Polygon:
		return Polygon, true
	case geom.MultiLineString:
		return MultiLine, true
	case geom.MultiPolygon:
		return MultiPolygon, true
	}
	return Line, false
}

// clonePoints returns a copy of pts so that edits never alias the caller's
// slice.
func clonePoints(pts []geom.Point) []geom.Point {
	if pts == nil {
		return nil
	}
	o := make([]geom.Point, len(pts))
	copy(o, pts)
	return o
}
