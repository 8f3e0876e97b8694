package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/render"
	"github.com/taigrr/globe/pkg/scene"
)

// MarkerEntry is one element of a marker catalog file.
type MarkerEntry struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// LoadMarkers reads a JSON marker catalog.
func LoadMarkers(path string, cfg config.Markers) ([]scene.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open marker catalog: %w", err)
	}
	defer f.Close()
	defs, err := ParseMarkers(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseMarkers decodes a catalog, applying cfg's default colour and size to
// entries that omit them. Every invalid entry is reported.
func ParseMarkers(r io.Reader, cfg config.Markers) ([]scene.Definition, error) {
	var entries []MarkerEntry
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode marker catalog: %w", err)
	}
	fallback, err := render.ParseHex(cfg.DefaultColor)
	if err != nil {
		return nil, fmt.Errorf("default marker colour: %w", err)
	}

	defs := make([]scene.Definition, 0, len(entries))
	var errs []error
	for i, e := range entries {
		def, err := e.definition(fallback, cfg.DefaultRadius)
		if err != nil {
			errs = append(errs, fmt.Errorf("marker %d (%s): %w", i, e.Name, err))
			continue
		}
		defs = append(defs, def)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return defs, nil
}

func (e MarkerEntry) definition(fallback render.Color, size float64) (scene.Definition, error) {
	if e.Lat < -90 || e.Lat > 90 {
		return scene.Definition{}, fmt.Errorf("latitude %v outside [-90, 90]", e.Lat)
	}
	if e.Lon < -180 || e.Lon > 180 {
		return scene.Definition{}, fmt.Errorf("longitude %v outside [-180, 180]", e.Lon)
	}
	if e.Size < 0 {
		return scene.Definition{}, fmt.Errorf("negative size %v", e.Size)
	}
	if e.Opacity < 0 || e.Opacity > 1 {
		return scene.Definition{}, fmt.Errorf("opacity %v outside [0, 1]", e.Opacity)
	}
	def := scene.Definition{
		Name:    e.Name,
		Lat:     e.Lat,
		Lon:     e.Lon,
		Color:   fallback,
		Size:    e.Size,
		Opacity: e.Opacity,
	}
	if def.Size == 0 {
		def.Size = size
	}
	if e.Color != "" {
		c, err := render.ParseHex(e.Color)
		if err != nil {
			return scene.Definition{}, err
		}
		def.Color = c
	}
	return def, nil
}

// WriteMarkers encodes defs as an indented catalog.
func WriteMarkers(w io.Writer, defs []scene.Definition) error {
	entries := make([]MarkerEntry, len(defs))
	for i, d := range defs {
		entries[i] = MarkerEntry{
			Name:    d.Name,
			Lat:     d.Lat,
			Lon:     d.Lon,
			Color:   d.Color.Hex(),
			Size:    d.Size,
			Opacity: d.Opacity,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
