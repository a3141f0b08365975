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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geoedit"
	"github.com/spatialmodel/geoedit/internal/hash"
)

// session is one run of the editor on one file.
type session struct {
	input, output string
	shapes        []*geoedit.Shape
	key           string

	log     *logrus.Logger
	logFile io.Closer
}

// openSession reads file and sets up logging and the output location from
// Cfg.
func openSession(file string) (*session, error) {
	out, err := checkOutputFile(Cfg.GetString("OutputFile"), file)
	if err != nil {
		return nil, err
	}
	log, closer, err := newLogger(checkLogFile(Cfg.GetString("LogFile"), out), Cfg.GetString("LogLevel"))
	if err != nil {
		return nil, err
	}
	shapes, err := Read(file)
	if err != nil {
		closer.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":     file,
		"features": len(shapes),
	}).Info("geoedit read features")
	return &session{
		input:   file,
		output:  out,
		shapes:  shapes,
		key:     hash.Shapes(shapes),
		log:     log,
		logFile: closer,
	}, nil
}

// Read reads features from a GeoJSON file or a shapefile, depending on the
// extension of file.
func Read(file string) ([]*geoedit.Shape, error) {
	switch {
	case isGeoJSON(file):
		return geoedit.ReadGeoJSON(file)
	case strings.ToLower(filepath.Ext(file)) == ".shp":
		return geoedit.ReadShapefile(file)
	}
	return nil, fmt.Errorf("geoedit: unsupported file type %s; use .geojson, .json or .shp", file)
}

// save writes shapes to the output file if they differ from what was read.
func (s *session) save(shapes []*geoedit.Shape) error {
	if !s.changed(shapes) {
		s.log.Info("geoedit: no changes to save")
		return nil
	}
	if err := geoedit.WriteGeoJSON(s.output, shapes); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"file":     s.output,
		"features": len(shapes),
	}).Info("geoedit wrote features")
	s.key = hash.Shapes(shapes)
	return nil
}

// Close closes the log file.
func (s *session) Close() error {
	return s.logFile.Close()
}

// editor creates an editor drawn on r with the select tool enabled, and
// registers the keys that switch tools. status, if not nil, is told the
// name of the enabled tool.
func (s *session) editor(r geoedit.Renderer, status func(string)) (*geoedit.Editor, error) {
	tc, err := ReadToolConfig(Cfg)
	if err != nil {
		return nil, err
	}
	e := geoedit.NewEditor(r, s.shapes)
	e.Log = s.log
	e.HoverDebounce = tc.HoverDebounce

	tools := map[string]geoedit.Tool{"s": geoedit.NewSelectTool(tc.DeadZone)}
	if t := tc.drawTool(geoedit.LineFamily); t != nil {
		tools["l"] = t
	}
	if t := tc.drawTool(geoedit.PlaneFamily); t != nil {
		tools["p"] = t
	}
	enable := func(key string) {
		t := tools[key]
		e.Enable(t)
		if status != nil {
			status(statusText(key, t))
		}
	}
	r.AddListener(geoedit.KeyDown, "", func(ev geoedit.Event) {
		if _, ok := tools[ev.Key]; !ok || ev.Modifiers != geoedit.ModNone || tools[ev.Key] == e.Tool() {
			return
		}
		if d, ok := e.Tool().(*geoedit.DrawTool); ok && d.Drawing() {
			return
		}
		enable(ev.Key)
	})
	enable("s")
	return e, nil
}

func statusText(key string, t geoedit.Tool) string {
	switch key {
	case "l":
		return "draw lines"
	case "p":
		return "draw polygons"
	}
	return t.String()
}

// bounds returns the bounding box of shapes.
func bounds(shapes []*geoedit.Shape) *geom.Bounds {
	b := geom.NewBounds()
	for _, s := range shapes {
		b.Extend(s.Bounds())
	}
	return b
}
