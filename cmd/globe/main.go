// globe - Terminal Globe Viewer
// An interactive, textured Earth in your terminal.
//
// Controls:
//
//	Mouse drag  - Rotate the globe; it keeps spinning after release
//	Scroll      - Zoom in/out
//	+/-         - Zoom in/out
//	Space       - Toggle auto-rotation
//	R           - Reset view and zoom
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/models"
	"github.com/taigrr/globe/pkg/scene"
	"github.com/taigrr/globe/pkg/viewer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var logFile string
	cmd := &cobra.Command{
		Use:   "globe",
		Short: "Terminal Globe Viewer",
		Long: `globe - Terminal Globe Viewer

An interactive Earth rendered with half-block characters.

Controls:
  Mouse drag  - Rotate (momentum after release)
  Scroll, +/- - Zoom
  Space       - Toggle auto-rotation
  R           - Reset view
  ?           - Toggle HUD overlay
  Esc         - Quit`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(cfg.LogLevel, logFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return viewer.Run(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())
	cfg.BindLoggingFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	cmd.AddCommand(newInfoCmd(), newMarkersCmd(&cfg))
	return cmd
}

func setupLogging(level, path string) error {
	if err := log.SetLogLevelStr(level); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <texture.png|texture.jpg|globe.glb>",
		Short: "Display texture information",
		Long:  "Display the format, size and source of a globe texture, including textures embedded in glTF/GLB files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	info, err := models.InspectTexture(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(stat.Size())/1024)
	fmt.Fprintf(out, "Format:     %s\n", strings.ToUpper(info.Format))
	fmt.Fprintf(out, "Dimensions: %dx%d\n", info.Width, info.Height)
	if info.Width != 2*info.Height {
		fmt.Fprintln(out, "Warning:    not 2:1, the map will be stretched")
	}
	if models.IsGLTF(path) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Images:     %d\n", info.Images)
		fmt.Fprintf(out, "Using:      %s\n", info.Source)
	}
	return nil
}

func newMarkersCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "markers [catalog.json]",
		Short: "List markers and their globe positions",
		Long:  "List a marker catalog, or the built-in world cities, with the cartesian position each marker is drawn at.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := scene.WorldCities()
			if len(args) == 1 {
				var err error
				if defs, err = models.LoadMarkers(args[0], cfg.Markers); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			radius := cfg.Globe.Radius + cfg.Markers.Elevation
			fmt.Fprintf(out, "%-16s %9s %10s  %-7s  %s\n", "NAME", "LAT", "LON", "COLOR", "POSITION")
			for _, d := range defs {
				p := scene.GeoToCartesian(d.Lat, d.Lon, radius)
				fmt.Fprintf(out, "%-16s %9.4f %10.4f  %-7s  (%.3f, %.3f, %.3f)\n",
					d.Name, d.Lat, d.Lon, d.Color.Hex(), p.X, p.Y, p.Z)
			}
			return nil
		},
	}
}
