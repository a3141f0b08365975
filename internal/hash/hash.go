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


// Package hash computes content keys for feature collections so that a
// session can tell whether anything was edited.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/ctessum/geom"
	"github.com/davecgh/go-spew/spew"
	"github.com/spatialmodel/geoedit"
)

func init() {
	gob.Register(geom.LineString{})
	gob.Register(geom.Polygon{})
	gob.Register(geom.MultiLineString{})
	gob.Register(geom.MultiPolygon{})
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
}

// Hash returns a hash key for the specified object.
func Hash(object interface{}) string {
	h := fnv.New128a()
	if err := gob.NewEncoder(h).Encode(object); err != nil {
		// gob cannot encode some values, such as property types it
		// has not seen registered, so use spew instead.
		h.Reset()
		spewer.Fprintf(h, "%#v", object)
	}
	return sum(h)
}

var spewer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Shapes returns a key that changes whenever the geometry or the properties
// of any shape change. Shape order is significant.
func Shapes(shapes []*geoedit.Shape) string {
	type record struct {
		Geom       geom.Geom
		Properties map[string]interface{}
	}
	recs := make([]record, len(shapes))
	for i, s := range shapes {
		recs[i] = record{Geom: s.Geom, Properties: s.Properties}
	}
	return Hash(recs)
}

func sum(h hash.Hash) string {
	b := h.Sum([]byte{})
	return fmt.Sprintf("%x", b[0:h.Size()])
}
