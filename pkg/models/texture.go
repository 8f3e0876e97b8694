// Package models loads the assets of the globe scene: the surface texture,
// from a plain image or from a glTF/GLB file, and marker catalogs.
package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/qmuntal/gltf"
	"github.com/taigrr/globe/pkg/render"
)

// ErrNoImage is returned for glTF files without a usable image.
var ErrNoImage = errors.New("no image in gltf document")

// TextureInfo describes a texture source without decoding the pixels.
type TextureInfo struct {
	Path   string
	Format string // png, jpeg, ...
	Width  int
	Height int
	Source string // "file", or the glTF image it was taken from
	Images int    // images in the glTF document, 0 for plain files
}

// IsGLTF reports whether path names a glTF or GLB file.
func IsGLTF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// LoadTexture decodes the texture at path into an equirectangular map.
func LoadTexture(path string) (*render.Texture, error) {
	data, _, err := readTexture(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return render.TextureFromImage(img), nil
}

// InspectTexture reads the size and format of the texture at path.
func InspectTexture(path string) (TextureInfo, error) {
	data, info, err := readTexture(path)
	if err != nil {
		return info, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return info, fmt.Errorf("decode texture %s: %w", path, err)
	}
	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info, nil
}

// TextureResult is the outcome of an asynchronous load.
type TextureResult struct {
	Path    string
	Texture *render.Texture
	Err     error
	Elapsed time.Duration
}

// LoadTextureAsync loads path on its own goroutine. The channel receives
// exactly one result unless ctx is cancelled first.
func LoadTextureAsync(ctx context.Context, path string) <-chan TextureResult {
	ch := make(chan TextureResult, 1)
	go func() {
		start := time.Now()
		tex, err := LoadTexture(path)
		res := TextureResult{Path: path, Texture: tex, Err: err, Elapsed: time.Since(start)}
		select {
		case ch <- res:
		case <-ctx.Done():
		}
	}()
	return ch
}

// readTexture returns the encoded image bytes for path.
func readTexture(path string) ([]byte, TextureInfo, error) {
	info := TextureInfo{Path: path, Source: "file"}
	if IsGLTF(path) {
		return readGLTFImage(path, info)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, info, fmt.Errorf("read texture: %w", err)
	}
	return data, info, nil
}

// readGLTFImage picks the base colour image of the first textured material,
// or the first image in the document.
func readGLTFImage(path string, info TextureInfo) ([]byte, TextureInfo, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, info, fmt.Errorf("open gltf: %w", err)
	}
	info.Images = len(doc.Images)
	order := make([]int, 0, len(doc.Images)+1)
	if idx, ok := baseColorImage(doc); ok {
		order = append(order, idx)
	}
	for i := range doc.Images {
		order = append(order, i)
	}
	for _, idx := range order {
		data, err := gltfImageBytes(doc, doc.Images[idx], path)
		if err != nil {
			log.LogVf("models: gltf image %d of %s: %v", idx, path, err)
			continue
		}
		info.Source = fmt.Sprintf("gltf image %d", idx)
		if name := doc.Images[idx].Name; name != "" {
			info.Source += fmt.Sprintf(" (%s)", name)
		}
		return data, info, nil
	}
	return nil, info, fmt.Errorf("%s: %w", path, ErrNoImage)
}

func baseColorImage(doc *gltf.Document) (int, bool) {
	for _, mat := range doc.Materials {
		pbr := mat.PBRMetallicRoughness
		if pbr == nil || pbr.BaseColorTexture == nil {
			continue
		}
		texIdx := int(pbr.BaseColorTexture.Index)
		if texIdx >= len(doc.Textures) {
			continue
		}
		tex := doc.Textures[texIdx]
		if tex.Source != nil && int(*tex.Source) < len(doc.Images) {
			return int(*tex.Source), true
		}
	}
	return 0, false
}

// gltfImageBytes returns an embedded image's buffer view, or the contents
// of the external file it references relative to the document.
func gltfImageBytes(doc *gltf.Document, img *gltf.Image, basePath string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if int(*img.BufferView) >= len(doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		bv := doc.BufferViews[*img.BufferView]
		if int(bv.Buffer) >= len(doc.Buffers) {
			return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		buf := doc.Buffers[bv.Buffer]
		start := int(bv.ByteOffset)
		end := start + int(bv.ByteLength)
		if buf.Data == nil || end > len(buf.Data) {
			return nil, fmt.Errorf("buffer %d holds %d bytes, need %d", bv.Buffer, len(buf.Data), end)
		}
		return buf.Data[start:end], nil
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		return os.ReadFile(filepath.Join(filepath.Dir(basePath), img.URI))
	}
	return nil, errors.New("image has neither buffer view nor uri")
}
