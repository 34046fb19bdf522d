package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Container headers in front of the embedded JPEG/TGA stream.
const (
	ozjHeader = 24
	oztHeader = 4
)

// Load reads a texture file and returns it as NRGBA. OZJ and OZT are
// unwrapped to their JPEG and TGA payloads; other formats decode directly.
// The decoder is chosen by extension: tga registers with an empty magic,
// so content sniffing would hand every stream to it.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	data := raw
	var decode func(io.Reader) (image.Image, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ozj":
		if len(raw) <= ozjHeader {
			return nil, fmt.Errorf("texture: OZJ too short: %s", path)
		}
		data, decode = raw[ozjHeader:], jpeg.Decode
	case ".ozt":
		if len(raw) <= oztHeader {
			return nil, fmt.Errorf("texture: OZT too short: %s", path)
		}
		data, decode = raw[oztHeader:], tga.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	case ".png":
		decode = png.Decode
	case ".tga":
		decode = tga.Decode
	default:
		return nil, fmt.Errorf("texture: unknown extension %q: %s", ext, path)
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
