// Package texture decodes images and keeps a load-once cache of GPU textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is decoded pixel data: tightly packed rows, top row first,
// Channels bytes per pixel (1 = red only, 3 = RGB, 4 = RGBA with straight alpha).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Decoder turns an image path into pixels.
type Decoder interface {
	Decode(path string) (*Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*Image, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(path string) (*Image, error) {
	return f(path)
}

// FileDecoder reads images from the file system.
type FileDecoder struct{}

// Decode implements Decoder.
func (FileDecoder) Decode(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, path)
}

// DecodeBytes decodes encoded image data. The name is used only to pick the
// TGA decoder, which has no magic number; every other format is sniffed.
func DecodeBytes(data []byte, name string) (*Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image to packed pixels. Gray images keep one
// channel, opaque images drop alpha, everything else becomes straight RGBA.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := &Image{Width: w, Height: h, Channels: 1, Pix: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			copy(out.Pix[y*w:(y+1)*w], src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):])
		}
		return out
	}

	channels := 4
	if isOpaque(img) {
		channels = 3
	}

	out := &Image{Width: w, Height: h, Channels: channels, Pix: make([]byte, w*h*channels)}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			if channels == 4 {
				out.Pix[i+3] = c.A
			}
			i += channels
		}
	}
	return out
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// Solid returns a 1x1 RGBA image of one color.
func Solid(r, g, b, a uint8) *Image {
	return &Image{Width: 1, Height: 1, Channels: 4, Pix: []byte{r, g, b, a}}
}

func (img *Image) validate() error {
	if img == nil {
		return fmt.Errorf("decoder returned no image")
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("empty image %dx%d", img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}
	return nil
}
