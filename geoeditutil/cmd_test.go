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
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/gdamore/tcell/v2"
	"github.com/spatialmodel/geoedit"
)

var square = geom.Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}

// testFile writes a feature file holding a line and a polygon and resets
// the options the tests change.
func testFile(t *testing.T) (dir, file string) {
	dir, err := ioutil.TempDir("", "geoeditutil")
	if err != nil {
		t.Fatal(err)
	}
	file = filepath.Join(dir, "features.geojson")
	err = geoedit.WriteGeoJSON(file, []*geoedit.Shape{
		geoedit.NewLine(geom.Point{X: 0, Y: 20}, geom.Point{X: 10, Y: 20}),
		geoedit.NewPolygon(square),
	})
	if err != nil {
		t.Fatal(err)
	}
	Cfg.Set("OutputFile", "")
	Cfg.Set("LogFile", filepath.Join(dir, "test.log"))
	Cfg.Set("Path", "")
	Cfg.Set("Insertion", "")
	return dir, file
}

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "geoedit v" + geoedit.Version; !strings.Contains(buf.String(), want) {
		t.Errorf("have %q, want %q", buf.String(), want)
	}
}

func TestMutateCmd(t *testing.T) {
	dir, file := testFile(t)
	defer os.RemoveAll(dir)

	t.Run("hole", func(t *testing.T) {
		out := filepath.Join(dir, "hole.geojson")
		Cfg.Set("OutputFile", out)
		Cfg.Set("Path", "1,1")
		Cfg.Set("Insertion", "2 2, 4 2, 4 4, 2 2")
		Root.SetArgs([]string{"mutate", file})
		if err := Root.Execute(); err != nil {
			t.Fatal(err)
		}
		shapes, err := geoedit.ReadGeoJSON(out)
		if err != nil {
			t.Fatal(err)
		}
		want := geom.Polygon{square, {{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 2}}}
		if len(shapes) != 2 || !reflect.DeepEqual(shapes[1].Geom, want) {
			t.Errorf("have %v, want %v", shapes, want)
		}
	})

	t.Run("delete in place", func(t *testing.T) {
		Cfg.Set("OutputFile", "")
		Cfg.Set("Path", "0")
		Cfg.Set("Insertion", "")
		if err := mutateCmd.RunE(mutateCmd, []string{file}); err != nil {
			t.Fatal(err)
		}
		shapes, err := geoedit.ReadGeoJSON(file)
		if err != nil {
			t.Fatal(err)
		}
		if len(shapes) != 1 || shapes[0].Kind() != geoedit.Polygon {
			t.Errorf("have %v, want only the polygon", shapes)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		Cfg.Set("Path", "5,0")
		if err := mutateCmd.RunE(mutateCmd, []string{file}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestEditUnchanged(t *testing.T) {
	dir, file := testFile(t)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "out.geojson")
	Cfg.Set("OutputFile", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Edit(ctx, tcell.NewSimulationScreen("UTF-8"), file); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output should not be written without changes: %v", err)
	}
}

func TestSessionKeys(t *testing.T) {
	dir, file := testFile(t)
	defer os.RemoveAll(dir)
	s, err := openSession(file)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	r := newKeyRenderer()
	var status []string
	e, err := s.editor(r, func(st string) { status = append(status, st) })
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"p", "x", "l", "s"} {
		r.key(k)
	}
	want := []string{"select", "draw polygons", "draw lines", "select"}
	if !reflect.DeepEqual(status, want) {
		t.Errorf("have %v, want %v", status, want)
	}
	if _, ok := e.Tool().(*geoedit.SelectTool); !ok {
		t.Errorf("have %v, want the select tool", e.Tool())
	}

	e.Mutate(geoedit.Path{0}, nil)
	if err := s.save(e.Features()); err != nil {
		t.Fatal(err)
	}
	shapes, err := geoedit.ReadGeoJSON(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 1 {
		t.Errorf("have %d features, want 1", len(shapes))
	}
}

type keyListener struct {
	ev geoedit.EventType
	h  geoedit.Handler
}

// keyRenderer is a renderer that only delivers key events.
type keyRenderer struct {
	listeners []*keyListener
}

func newKeyRenderer() *keyRenderer { return new(keyRenderer) }

func (r *keyRenderer) Render(string, []*geoedit.Shape) {}

func (r *keyRenderer) AddListener(ev geoedit.EventType, layer string, h geoedit.Handler) func() {
	l := &keyListener{ev: ev, h: h}
	if layer == "" {
		r.listeners = append(r.listeners, l)
	}
	return func() {
		for i, ll := range r.listeners {
			if ll == l {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *keyRenderer) SetCursor(geoedit.Cursor) func() { return func() {} }

func (r *keyRenderer) SetFeatureState(string, geoedit.Ref, geoedit.FeatureState) {}

func (r *keyRenderer) key(k string) {
	for _, l := range append([]*keyListener(nil), r.listeners...) {
		if l.ev == geoedit.KeyDown {
			l.h(geoedit.Event{Type: geoedit.KeyDown, Key: k})
		}
	}
}

func TestReadUnsupported(t *testing.T) {
	if _, err := Read("features.kml"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("have %v, want an unsupported file type error", err)
	}
}
