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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geoedit"
	"github.com/spf13/cast"
)

// ToolConfig holds the tool settings read from the configuration.
type ToolConfig struct {
	Kinds                    geoedit.Kinds
	Create, Append, Subtract geoedit.Capability
	HoverDebounce            time.Duration
	DeadZone                 float64
}

// ReadToolConfig reads the tool settings from cfg.
func ReadToolConfig(cfg *viper.Viper) (*ToolConfig, error) {
	kindNames, err := cast.ToStringSliceE(cfg.Get("Kinds"))
	if err != nil {
		return nil, fmt.Errorf("geoedit: reading Kinds: %v", err)
	}
	c := new(ToolConfig)
	for _, n := range splitList(kindNames) {
		k, err := geoedit.ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("geoedit: reading Kinds: %v", err)
		}
		if !c.Kinds.Has(k) {
			c.Kinds = append(c.Kinds, k)
		}
	}
	if len(c.Kinds) == 0 {
		return nil, fmt.Errorf("geoedit: Kinds must name at least one geometry kind")
	}
	for _, opt := range []struct {
		name string
		dst  *geoedit.Capability
	}{
		{"Create", &c.Create},
		{"Append", &c.Append},
		{"Subtract", &c.Subtract},
	} {
		*opt.dst, err = geoedit.ParseCapability(cast.ToString(cfg.Get(opt.name)))
		if err != nil {
			return nil, fmt.Errorf("geoedit: reading %s: %v", opt.name, err)
		}
	}
	c.HoverDebounce, err = cast.ToDurationE(cfg.Get("HoverDebounce"))
	if err != nil {
		return nil, fmt.Errorf("geoedit: reading HoverDebounce: %v", err)
	}
	c.DeadZone, err = cast.ToFloat64E(cfg.Get("DeadZone"))
	if err != nil {
		return nil, fmt.Errorf("geoedit: reading DeadZone: %v", err)
	}
	return c, nil
}

// splitList splits comma-separated entries, which is how list options
// arrive from environment variables and flag defaults.
func splitList(s []string) []string {
	var o []string
	for _, e := range s {
		for _, f := range strings.Split(strings.Trim(e, "[]"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				o = append(o, f)
			}
		}
	}
	return o
}

// drawTool returns a draw tool limited to the kinds of family f, or nil if
// none of them are allowed.
func (c *ToolConfig) drawTool(f geoedit.Family) *geoedit.DrawTool {
	var kinds geoedit.Kinds
	for _, k := range c.Kinds {
		if k.Family() == f {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil
	}
	t := geoedit.NewDrawTool(kinds...)
	t.Create, t.Append, t.Subtract = c.Create, c.Append, c.Subtract
	return t
}

// ParseInsertion parses a list of positions written as "x y, x y, ...".
// An empty string is an empty insertion.
func ParseInsertion(s string) ([]geom.Point, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var pts []geom.Point
	for _, pos := range strings.Split(s, ",") {
		f := strings.Fields(pos)
		if len(f) != 2 {
			return nil, fmt.Errorf("geoedit: invalid position %q in insertion", strings.TrimSpace(pos))
		}
		x, err := cast.ToFloat64E(f[0])
		if err != nil {
			return nil, fmt.Errorf("geoedit: invalid position %q in insertion: %v", strings.TrimSpace(pos), err)
		}
		y, err := cast.ToFloat64E(f[1])
		if err != nil {
			return nil, fmt.Errorf("geoedit: invalid position %q in insertion: %v", strings.TrimSpace(pos), err)
		}
		pts = append(pts, geom.Point{X: x, Y: y})
	}
	return pts, nil
}

// isGeoJSON reports whether f names a GeoJSON file.
func isGeoJSON(f string) bool {
	switch strings.ToLower(filepath.Ext(f)) {
	case ".geojson", ".json":
		return true
	}
	return false
}

// checkOutputFile expands any environment variables in the output file,
// falls back to the input file when it is GeoJSON, and makes sure that the
// output directory exists.
func checkOutputFile(f, input string) (string, error) {
	f = os.ExpandEnv(f)
	if f == "" {
		if !isGeoJSON(input) {
			return "", fmt.Errorf("geoedit: you need to specify an OutputFile for non-GeoJSON input %s", input)
		}
		f = input
	}
	if !isGeoJSON(f) {
		return f, fmt.Errorf("geoedit: OutputFile %s must end in .geojson or .json", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("geoedit: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	logFile = os.ExpandEnv(logFile)
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger returns a logger writing to logFile at the named level.
func newLogger(logFile, level string) (*logrus.Logger, io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("geoedit: reading LogLevel: %v", err)
	}
	l := logrus.New()
	l.Level = lvl
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}
	if logFile == "" {
		return l, nopCloser{}, nil
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("geoedit: creating log file: %v", err)
	}
	l.Out = f
	return l, f, nil
}
