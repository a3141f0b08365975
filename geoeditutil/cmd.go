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


// Package geoeditutil holds the command line interface to geoedit.
package geoeditutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/geoedit"
	"github.com/spatialmodel/geoedit/internal/hash"
	"github.com/spatialmodel/geoedit/remote"
	"github.com/spatialmodel/geoedit/terminal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to geoedit.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Kinds",
			usage: `
              Kinds lists the geometry kinds that drawing may produce. Options are
              LineString, Polygon, MultiLineString and MultiPolygon.`,
			defaultVal: []string{"LineString", "Polygon", "MultiLineString", "MultiPolygon"},
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Create",
			usage: `
              Create specifies whether drawing with nothing selected creates a new
              shape. It is "true", "false", or the name of a modifier key (e.g.
              "ctrl") that must be held.`,
			defaultVal: "true",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Append",
			usage: `
              Append specifies whether drawing adds a member to the selected shapes.
              It takes the same values as Create.`,
			defaultVal: "shift",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Subtract",
			usage: `
              Subtract specifies whether drawing cuts a hole in the selected polygons.
              It takes the same values as Create.`,
			defaultVal: "alt",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "HoverDebounce",
			usage: `
              HoverDebounce is how long the pointer must rest on a shape before it
              is highlighted, e.g. "50ms".`,
			defaultVal: "50ms",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "HitTolerance",
			usage: `
              HitTolerance is how close the pointer must be to a shape to hit it. It
              is in terminal cells for edit and in map units for serve.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "DeadZone",
			usage: `
              DeadZone is the distance in map units the pointer must travel while
              pressed before a drag starts.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the edited features are written as GeoJSON.
              It can include environment variables. If it is left blank the input
              file is overwritten, which is only allowed for GeoJSON input.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags(), mutateCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags(), mutateCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages, e.g. "info" or "debug".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{editCmd.Flags(), serveCmd.Flags(), mutateCmd.Flags()},
		},
		{
			name: "Theme",
			usage: `
              Theme is the path to a TOML file setting the colors and glyphs used by
              the terminal editor. Unset entries keep their defaults.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{editCmd.Flags()},
		},
		{
			name: "Address",
			usage: `
              Address is the network address the editing server listens on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Path",
			usage: `
              Path is the comma-separated location of the edit, starting with the
              index of the shape, e.g. "0,2" for the third ring of the first shape.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mutateCmd.Flags()},
		},
		{
			name: "Insertion",
			usage: `
              Insertion is the list of positions to put at Path, written as
              "x y, x y, ...". An empty insertion deletes what Path addresses.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mutateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOEDIT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(editCmd)
	Root.AddCommand(serveCmd)
	Root.AddCommand(mutateCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geoedit: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geoedit",
	Short: "An editor for line and polygon features.",
	Long: `geoedit edits collections of line and polygon features, either in a text
terminal or from a browser map connected over a websocket.
Use the subcommands specified below to access the editor functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEOEDIT_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of geoedit.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("geoedit v%s\n", geoedit.Version)
	},
	DisableAutoGenTag: true,
}

// newScreen creates the screen used by the edit command.
var newScreen = tcell.NewScreen

var editCmd = &cobra.Command{
	Use:   "edit FILE",
	Short: "Edit features in the terminal.",
	Long: `edit opens FILE, which can be GeoJSON or a shapefile, in a terminal editor.
Press 's' for the select tool, 'l' to draw lines and 'p' to draw polygons. Drag
with the mouse to move the selection, and use the arrow keys and the mouse wheel to move the view.
Ctrl-Q quits and saves the features if they were changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		screen, err := newScreen()
		if err != nil {
			return fmt.Errorf("geoedit: opening terminal: %v", err)
		}
		ctx, cancel := signalContext()
		defer cancel()
		return Edit(ctx, screen, args[0])
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve FILE",
	Short: "Edit features from a browser map.",
	Long: `serve opens FILE and serves an editing session over a websocket at Address.
The current features are also available as GeoJSON at /features.geojson.
The features are saved when the server is interrupted, if they were changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return Serve(ctx, Cfg.GetString("Address"), args[0])
	},
	DisableAutoGenTag: true,
}

var mutateCmd = &cobra.Command{
	Use:   "mutate FILE",
	Short: "Apply one edit to a feature file.",
	Long: `mutate applies the edit given by Path and Insertion to the features in FILE
and writes the result to OutputFile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Mutate(args[0], Cfg.GetString("Path"), Cfg.GetString("Insertion"))
	},
	DisableAutoGenTag: true,
}

// signalContext returns a context that is canceled on an interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, cancel
}

// Edit runs a terminal editing session on the features in file until the
// user quits or ctx is done, and then saves them if they changed. screen
// must not be initialized yet.
func Edit(ctx context.Context, screen tcell.Screen, file string) error {
	s, err := openSession(file)
	if err != nil {
		return err
	}
	defer s.Close()

	theme := terminal.DefaultTheme()
	if f := Cfg.GetString("Theme"); f != "" {
		if theme, err = terminal.LoadTheme(os.ExpandEnv(f)); err != nil {
			return err
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("geoedit: initializing terminal: %v", err)
	}
	screen.EnableMouse()
	c := terminal.NewCanvas(screen, theme)
	c.Log = s.log
	c.Tolerance = Cfg.GetFloat64("HitTolerance")
	c.Fit(bounds(s.shapes))

	e, err := s.editor(c, c.SetStatus)
	if err != nil {
		screen.Fini()
		return err
	}
	if err := c.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	e.Close()
	return s.save(e.Features())
}

// Serve runs a remote editing session on the features in file, listening
// on addr, until ctx is done, and then saves them if they changed.
func Serve(ctx context.Context, addr, file string) error {
	s, err := openSession(file)
	if err != nil {
		return err
	}
	defer s.Close()

	srv := remote.NewServer()
	srv.Log = s.log
	srv.Tolerance = Cfg.GetFloat64("HitTolerance")
	e, err := s.editor(srv, nil)
	if err != nil {
		return err
	}

	hs := &http.Server{Addr: addr, Handler: srv}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	failed := make(chan error, 1)
	go func() {
		if err := hs.ListenAndServe(); err != http.ErrServerClosed {
			failed <- err
			cancel()
		}
	}()
	s.log.WithField("address", addr).Info("geoedit serving")

	srv.Run(runCtx)
	hs.Close()
	e.Close()
	select {
	case err := <-failed:
		return fmt.Errorf("geoedit: serving: %v", err)
	default:
	}
	return s.save(e.Features())
}

// Mutate applies one edit to the features in file and saves the result.
// path and insertion are parsed with geoedit.ParsePath and ParseInsertion.
func Mutate(file, path, insertion string) error {
	s, err := openSession(file)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := geoedit.ParsePath(path)
	if err != nil {
		return err
	}
	ins, err := ParseInsertion(insertion)
	if err != nil {
		return err
	}
	if p[0] >= len(s.shapes) {
		return fmt.Errorf("geoedit: path %v is out of range for %d features", p, len(s.shapes))
	}
	s.log.WithFields(logrus.Fields{
		"path":      p,
		"positions": len(ins),
	}).Info("geoedit mutate")
	return s.save(geoedit.MutateAll(s.shapes, p, ins))
}

// changed reports whether shapes differ from what was read.
func (s *session) changed(shapes []*geoedit.Shape) bool {
	return hash.Shapes(shapes) != s.key
}
