package gpu

import (
	"errors"
	"fmt"
)

// ErrInvalidTexture is returned for texture descriptions that cannot be uploaded.
var ErrInvalidTexture = errors.New("gpu: invalid texture description")

// ErrInvalidVertexData is returned for vertex data whose layout does not match its bytes.
var ErrInvalidVertexData = errors.New("gpu: invalid vertex data")

// ValidateTexture checks that desc describes a complete upload.
func ValidateTexture(desc TextureDesc) error {
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidTexture, desc.Width, desc.Height)
	}
	channels := desc.Format.Channels()
	if channels == 0 {
		return fmt.Errorf("%w: unknown format %d", ErrInvalidTexture, desc.Format)
	}
	if want := desc.Width * desc.Height * channels; len(desc.Pixels) != want {
		return fmt.Errorf("%w: %d pixel bytes, want %d", ErrInvalidTexture, len(desc.Pixels), want)
	}
	return nil
}

// ValidateVertexData checks that the layout fits the stride and every index
// addresses an existing vertex.
func ValidateVertexData(data VertexData) error {
	if data.Stride <= 0 {
		return fmt.Errorf("%w: stride %d", ErrInvalidVertexData, data.Stride)
	}
	if len(data.Vertices)%int(data.Stride) != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of stride %d", ErrInvalidVertexData, len(data.Vertices), data.Stride)
	}
	for _, a := range data.Attribs {
		width := uintptr(a.Size) * 4
		if a.Offset+width > uintptr(data.Stride) {
			return fmt.Errorf("%w: attribute %d overruns stride", ErrInvalidVertexData, a.Slot)
		}
	}
	vertexCount := uint32(len(data.Vertices) / int(data.Stride))
	for i, idx := range data.Indices {
		if idx >= vertexCount {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidVertexData, idx, i, vertexCount)
		}
	}
	return nil
}
