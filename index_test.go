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
	"reflect"
	"testing"

	"github.com/ctessum/geom"
	"github.com/gonum/floats"
)

func TestIndexHit(t *testing.T) {
	shapes := []*Shape{
		{Geom: geom.Polygon{r1, r2}},
		{Geom: geom.LineString{{X: -5, Y: 5}, {X: 15, Y: 5}}},
		{Geom: geom.MultiPolygon{{r4}}},
	}
	idx := NewIndex(FeaturesLayer, shapes, 0.25)
	if idx.Len() != 6 {
		t.Errorf("have %d items, want 6", idx.Len())
	}
	tests := []struct {
		p    geom.Point
		want Path
	}{
		{p: geom.Point{X: 3, Y: 5.2}, want: Path{1, 0}},
		{p: geom.Point{X: 5, Y: 0.1}, want: Path{0, 0}},
		{p: geom.Point{X: 1.9, Y: 1.5}, want: Path{0, 1}},
		{p: geom.Point{X: 8, Y: 3}, want: Path{0, 0}},
		{p: geom.Point{X: 28, Y: 22}, want: Path{2, 0}},
		{p: geom.Point{X: -12, Y: 5}},
		{p: geom.Point{X: 1.707, Y: 1.293}}, // In the hole.
	}
	for _, test := range tests {
		have, ok := idx.Hit(test.p)
		if test.want == nil {
			if ok {
				t.Errorf("%v: have %v, want no hit", test.p, have)
			}
			continue
		}
		if !reflect.DeepEqual(have, test.want) {
			t.Errorf("%v: have %v, want %v", test.p, have, test.want)
		}
	}
}

func TestIndexPoints(t *testing.T) {
	shapes := []*Shape{{Geom: geom.Polygon{r1}}}
	handles := VertexHandles(shapes, []Path{{0, 0}})
	idx := NewIndex(PointsLayer, handles, 1)
	if idx.Len() != 3 {
		t.Fatalf("have %d items, want 3", idx.Len())
	}
	have, ok := idx.Hit(geom.Point{X: 9.5, Y: 9.8})
	if !ok || !reflect.DeepEqual(have, Path{0, 0, 2}) {
		t.Errorf("have %v, want [0 0 2]", have)
	}
	if _, ok := idx.Hit(geom.Point{X: 5, Y: 0}); ok {
		t.Error("segments are not hit on the points layer")
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0}
	for _, test := range []struct {
		p    geom.Point
		want float64
	}{
		{p: geom.Point{X: 5, Y: 3}, want: 3},
		{p: geom.Point{X: -3, Y: 4}, want: 5},
		{p: geom.Point{X: 13, Y: -4}, want: 5},
	} {
		have := segmentDistance(test.p, a, b)
		if !floats.EqualWithinAbs(have, test.want, 1e-12) {
			t.Errorf("%v: have %g, want %g", test.p, have, test.want)
		}
	}
}
