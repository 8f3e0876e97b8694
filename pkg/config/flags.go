package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the user-facing settings on fs, writing parsed values
// straight into c. Call it on a Config already holding defaults so the flag
// help shows them.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.FPS, "fps", c.FPS, "Target FPS")
	fs.BoolVar(&c.FrameIndependent, "frame-independent", c.FrameIndependent,
		"Scale rotation and damping by elapsed time instead of per frame")

	fs.StringVar(&c.Globe.TexturePath, "texture", c.Globe.TexturePath,
		"Globe texture: equirectangular PNG/JPG, or a .glb/.gltf carrying one")
	fs.StringVar(&c.Globe.FallbackColor, "globe-color", c.Globe.FallbackColor, "Globe colour when no texture loads")

	fs.BoolVar(&c.Controls.AutoRotate, "auto-rotate", c.Controls.AutoRotate, "Start with auto-rotation enabled")
	fs.Float64Var(&c.Controls.Damping, "damping", c.Controls.Damping, "Inertia damping factor per tick, in (0,1)")
	fs.Float64Var(&c.Controls.MinScale, "min-zoom", c.Controls.MinScale, "Minimum globe scale")
	fs.Float64Var(&c.Controls.MaxScale, "max-zoom", c.Controls.MaxScale, "Maximum globe scale")

	fs.IntVar(&c.Stars.Count, "stars", c.Stars.Count, "Number of background stars")
	fs.Uint64Var(&c.Stars.Seed, "star-seed", c.Stars.Seed, "Random seed for the starfield")

	fs.StringVar(&c.Markers.Path, "markers", c.Markers.Path, "Marker catalog (JSON); default shows world cities")

	fs.StringVar(&c.UI.Background, "bg", c.UI.Background, "Background colour (#rrggbb)")
	fs.BoolVar(&c.UI.ShowHUD, "hud", c.UI.ShowHUD, "Show the HUD overlay")
	fs.StringVar(&c.UI.SnapshotPath, "snapshot", c.UI.SnapshotPath, "PNG file the s key saves the current frame to")

	fs.StringVar(&c.Relay.Addr, "relay", c.Relay.Addr,
		"Listen address for the browser input relay (e.g. :8090); empty disables it")
}

// BindLoggingFlags registers the settings every subcommand shares. Bind it
// on the root command's persistent flags.
func (c *Config) BindLoggingFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, verbose, info, warning, error)")
}
