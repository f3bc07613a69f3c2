package texture

import (
	"errors"
	"fmt"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrTGATruncated is returned when TGA data ends before the image does.
var ErrTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes a true-color TGA file into tightly packed pixels.
// Supports uncompressed (type 2) and RLE compressed (type 10) images at 24 or
// 32 bits per pixel. 24-bit images decode to 3 channels, 32-bit to 4.
func DecodeTGA(data []byte) (*Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header", ErrTGATruncated)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("TGA has empty size %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: image id", ErrTGATruncated)
	}

	img := &Image{
		Width:    width,
		Height:   height,
		Channels: bpp / 8,
	}
	img.Pix = make([]byte, width*height*img.Channels)

	w := tgaWriter{
		img:         img,
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = w.readRaw(data[offset:])
	} else {
		err = w.readRLE(data[offset:])
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// tgaWriter places BGR(A) source pixels into the destination image in
// scanline order, flipping bottom-up files so row 0 is the top row.
type tgaWriter struct {
	img         *Image
	topToBottom bool
	next        int
}

func (w *tgaWriter) put(src []byte) {
	width := w.img.Width
	x := w.next % width
	y := w.next / width
	if !w.topToBottom {
		y = w.img.Height - 1 - y
	}
	ch := w.img.Channels
	i := (y*width + x) * ch
	w.img.Pix[i] = src[2]
	w.img.Pix[i+1] = src[1]
	w.img.Pix[i+2] = src[0]
	if ch == 4 {
		w.img.Pix[i+3] = src[3]
	}
	w.next++
}

func (w *tgaWriter) done() bool {
	return w.next >= w.img.Width*w.img.Height
}

func (w *tgaWriter) readRaw(src []byte) error {
	ch := w.img.Channels
	if len(src) < w.img.Width*w.img.Height*ch {
		return fmt.Errorf("%w: pixel data", ErrTGATruncated)
	}
	for i := 0; !w.done(); i += ch {
		w.put(src[i : i+ch])
	}
	return nil
}

func (w *tgaWriter) readRLE(src []byte) error {
	ch := w.img.Channels
	pos := 0
	for !w.done() {
		if pos >= len(src) {
			return fmt.Errorf("%w: RLE packet", ErrTGATruncated)
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated
			if pos+ch > len(src) {
				return fmt.Errorf("%w: RLE pixel", ErrTGATruncated)
			}
			px := src[pos : pos+ch]
			pos += ch
			for i := 0; i < count && !w.done(); i++ {
				w.put(px)
			}
			continue
		}

		// Raw packet: count literal pixels
		for i := 0; i < count && !w.done(); i++ {
			if pos+ch > len(src) {
				return fmt.Errorf("%w: raw pixel", ErrTGATruncated)
			}
			w.put(src[pos : pos+ch])
			pos += ch
		}
	}
	return nil
}
