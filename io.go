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
	"io/ioutil"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	geojson "github.com/paulmach/go.geojson"
)

// FeatureCollection converts shapes to a GeoJSON feature collection. The
// Properties of each shape become the properties of its feature.
func FeatureCollection(shapes []*Shape) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range shapes {
		g := toGeometry(s.Geom)
		if g == nil {
			continue
		}
		f := geojson.NewFeature(g)
		for k, v := range s.Properties {
			f.SetProperty(k, v)
		}
		fc.AddFeature(f)
	}
	return fc
}

// FromFeatureCollection converts a GeoJSON feature collection to shapes.
// Features whose geometry is not a line or polygon kind are an error, and
// plural geometries with a single member are stored as the singular kind.
func FromFeatureCollection(fc *geojson.FeatureCollection) ([]*Shape, error) {
	shapes := make([]*Shape, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("geoedit: feature %d has no geometry", i)
		}
		g, err := fromGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("geoedit: feature %d: %v", i, err)
		}
		var props Properties
		if len(f.Properties) > 0 {
			props = make(Properties, len(f.Properties))
			for k, v := range f.Properties {
				props[k] = v
			}
		}
		shapes = append(shapes, &Shape{Geom: normalize(g), Properties: props})
	}
	return shapes, nil
}

// ReadGeoJSON reads a feature collection from the named file.
func ReadGeoJSON(filename string) ([]*Shape, error) {
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("geoedit: reading %s: %v", filename, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("geoedit: decoding %s: %v", filename, err)
	}
	shapes, err := FromFeatureCollection(fc)
	if err != nil {
		return nil, fmt.Errorf("%v in %s", err, filename)
	}
	return shapes, nil
}

// WriteGeoJSON writes shapes to the named file as a feature collection.
func WriteGeoJSON(filename string, shapes []*Shape) error {
	b, err := FeatureCollection(shapes).MarshalJSON()
	if err != nil {
		return fmt.Errorf("geoedit: encoding %s: %v", filename, err)
	}
	if err := ioutil.WriteFile(filename, b, 0644); err != nil {
		return fmt.Errorf("geoedit: writing %s: %v", filename, err)
	}
	return nil
}

// ReadShapefile reads the line and polygon records of a shapefile. Every
// attribute column is carried as a string property. Null records are skipped
// and point records are an error.
func ReadShapefile(filename string) ([]*Shape, error) {
	filename = strings.TrimSuffix(filename, ".shp")
	d, err := shp.NewDecoder(filename + ".shp")
	if err != nil {
		return nil, fmt.Errorf("geoedit: opening shapefile %s: %v", filename, err)
	}
	defer d.Close()

	fields := d.Reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	var shapes []*Shape
	for {
		g, vals, more := d.DecodeRowFields(names...)
		if !more {
			break
		}
		if g == nil {
			continue
		}
		if _, ok := kindOf(g); !ok {
			return nil, fmt.Errorf("geoedit: shapefile %s: record %d: unsupported geometry type %T",
				filename, len(shapes), g)
		}
		var props Properties
		if len(vals) > 0 {
			props = make(Properties, len(vals))
			for k, v := range vals {
				props[k] = strings.TrimRight(v, "\x00 ")
			}
		}
		shapes = append(shapes, &Shape{Geom: normalize(g), Properties: props})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("geoedit: reading shapefile %s: %v", filename, err)
	}
	return shapes, nil
}

// normalize demotes single-member plural geometries.
func normalize(g geom.Geom) geom.Geom {
	switch t := g.(type) {
	case geom.MultiLineString:
		if len(t) == 1 {
			return t[0]
		}
	case geom.MultiPolygon:
		if len(t) == 1 {
			return t[0]
		}
	}
	return g
}

func toGeometry(g geom.Geom) *geojson.Geometry {
	switch t := g.(type) {
	case geom.LineString:
		return geojson.NewLineStringGeometry(toCoords(t))
	case geom.Polygon:
		return geojson.NewPolygonGeometry(toRings(t))
	case geom.MultiLineString:
		lines := make([][][]float64, len(t))
		for i, l := range t {
			lines[i] = toCoords(l)
		}
		return geojson.NewMultiLineStringGeometry(lines...)
	case geom.MultiPolygon:
		polys := make([][][][]float64, len(t))
		for i, p := range t {
			polys[i] = toRings(p)
		}
		return geojson.NewMultiPolygonGeometry(polys...)
	}
	return nil
}

func toCoords(pts []geom.Point) [][]float64 {
	o := make([][]float64, len(pts))
	for i, p := range pts {
		o[i] = []float64{p.X, p.Y}
	}
	return o
}

func toRings(p geom.Polygon) [][][]float64 {
	o := make([][][]float64, len(p))
	for i, r := range p {
		o[i] = toCoords(r)
	}
	return o
}

func fromGeometry(g *geojson.Geometry) (geom.Geom, error) {
	switch g.Type {
	case geojson.GeometryLineString:
		return geom.LineString(fromCoords(g.LineString)), nil
	case geojson.GeometryPolygon:
		return fromRings(g.Polygon), nil
	case geojson.GeometryMultiLineString:
		o := make(geom.MultiLineString, len(g.MultiLineString))
		for i, l := range g.MultiLineString {
			o[i] = geom.LineString(fromCoords(l))
		}
		return o, nil
	case geojson.GeometryMultiPolygon:
		o := make(geom.MultiPolygon, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			o[i] = fromRings(p)
		}
		return o, nil
	}
	return nil, fmt.Errorf("unsupported geometry type %s", g.Type)
}

func fromCoords(c [][]float64) []geom.Point {
	o := make([]geom.Point, 0, len(c))
	for _, xy := range c {
		if len(xy) < 2 {
			continue
		}
		o = append(o, geom.Point{X: xy[0], Y: xy[1]})
	}
	return o
}

func fromRings(c [][][]float64) geom.Polygon {
	o := make(geom.Polygon, len(c))
	for i, r := range c {
		o[i] = geom.Path(fromCoords(r))
	}
	return o
}
