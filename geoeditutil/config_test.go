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


package geoeditutil

import (
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/geoedit"
)

func TestParseInsertion(t *testing.T) {
	tests := []struct {
		in   string
		want []geom.Point
		err  bool
	}{
		{in: "", want: nil},
		{in: "1 2", want: []geom.Point{{X: 1, Y: 2}}},
		{in: "1 2, -3.5 4e1", want: []geom.Point{{X: 1, Y: 2}, {X: -3.5, Y: 40}}},
		{in: "1 2, 3", err: true},
		{in: "1 x", err: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			have, err := ParseInsertion(test.in)
			if (err != nil) != test.err {
				t.Fatalf("error: have %v, want error %v", err, test.err)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func testToolCfg() *viper.Viper {
	cfg := viper.New()
	cfg.Set("Kinds", []string{"Polygon", "linestring,MultiPolygon", "polygon"})
	cfg.Set("Create", "ctrl")
	cfg.Set("Append", "shift")
	cfg.Set("Subtract", "false")
	cfg.Set("HoverDebounce", "20ms")
	cfg.Set("DeadZone", 0.25)
	return cfg
}

func TestReadToolConfig(t *testing.T) {
	c, err := ReadToolConfig(testToolCfg())
	if err != nil {
		t.Fatal(err)
	}
	want := &ToolConfig{
		Kinds:         geoedit.Kinds{geoedit.Polygon, geoedit.Line, geoedit.MultiPolygon},
		Create:        geoedit.WithModifier(geoedit.ModCtrl),
		Append:        geoedit.WithModifier(geoedit.ModShift),
		Subtract:      geoedit.Off,
		HoverDebounce: 20 * time.Millisecond,
		DeadZone:      0.25,
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("have %+v, want %+v", c, want)
	}

	t.Run("draw tools", func(t *testing.T) {
		line := c.drawTool(geoedit.LineFamily)
		if line == nil || !reflect.DeepEqual(line.Kinds, geoedit.Kinds{geoedit.Line}) {
			t.Errorf("line tool: have %+v", line)
		}
		plane := c.drawTool(geoedit.PlaneFamily)
		if plane == nil || !reflect.DeepEqual(plane.Kinds, geoedit.Kinds{geoedit.Polygon, geoedit.MultiPolygon}) {
			t.Errorf("plane tool: have %+v", plane)
		}
		if plane.Create != c.Create || plane.Append != c.Append || plane.Subtract != c.Subtract {
			t.Errorf("plane tool capabilities: have %+v", plane)
		}
	})
}

func TestReadToolConfigInvalid(t *testing.T) {
	for _, test := range []struct{ key, val string }{
		{"Kinds", "Point"},
		{"Create", "hyper"},
		{"HoverDebounce", "soon"},
	} {
		t.Run(test.key, func(t *testing.T) {
			cfg := testToolCfg()
			cfg.Set(test.key, test.val)
			if _, err := ReadToolConfig(cfg); err == nil {
				t.Errorf("%s=%q: expected an error", test.key, test.val)
			}
		})
	}
}

func TestCheckOutputFile(t *testing.T) {
	if f, err := checkOutputFile("", "in.geojson"); err != nil || f != "in.geojson" {
		t.Errorf("have %q, %v; want in.geojson", f, err)
	}
	if _, err := checkOutputFile("", "in.shp"); err == nil {
		t.Error("shapefile input without OutputFile should be an error")
	}
	if _, err := checkOutputFile("out.shp", "in.geojson"); err == nil {
		t.Error("non-GeoJSON output should be an error")
	}
	if _, err := checkOutputFile("missing/dir/out.geojson", "in.shp"); err == nil {
		t.Error("missing output directory should be an error")
	}
	if have := checkLogFile("", "dir/out.geojson"); have != "dir/out.log" {
		t.Errorf("have %q, want dir/out.log", have)
	}
}
