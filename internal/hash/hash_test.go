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


package hash

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/geoedit"
)

func shapes(x float64, name interface{}) []*geoedit.Shape {
	return []*geoedit.Shape{
		{
			Geom:       geom.LineString{{X: 0, Y: 0}, {X: x, Y: 1}},
			Properties: geoedit.Properties{"name": name},
		},
		geoedit.NewPolygon(geom.Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}),
	}
}

func TestShapes(t *testing.T) {
	base := Shapes(shapes(1, "a"))
	if have := Shapes(shapes(1, "a")); have != base {
		t.Errorf("same content: have %s, want %s", have, base)
	}
	if Shapes(shapes(2, "a")) == base {
		t.Error("moved vertex should change the key")
	}
	if Shapes(shapes(1, "b")) == base {
		t.Error("changed property should change the key")
	}
	if Shapes(shapes(1, "a")[:1]) == base {
		t.Error("deleted shape should change the key")
	}
}

func TestHashFallback(t *testing.T) {
	type unregistered struct{ V float64 }
	a := Shapes(shapes(math.NaN(), unregistered{1}))
	b := Shapes(shapes(math.NaN(), unregistered{1}))
	if a != b {
		t.Errorf("have %s, want %s", a, b)
	}
	if a == Shapes(shapes(math.NaN(), unregistered{2})) {
		t.Error("changed property should change the key")
	}
}
