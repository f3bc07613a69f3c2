// Package opengl implements the gpu.Device surface on an OpenGL 4.1 core context.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
)

// Device implements gpu.Device with OpenGL calls on the current context.
type Device struct{}

var _ gpu.Device = (*Device)(nil)

// NewDevice initializes the OpenGL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Device{}, nil
}

// Version returns the driver's version and renderer strings.
func (d *Device) Version() (version, renderer string) {
	return gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER))
}

// NewTexture2D implements gpu.Device.
func (d *Device) NewTexture2D(desc gpu.TextureDesc) (gpu.TextureID, error) {
	if err := gpu.ValidateTexture(desc); err != nil {
		return 0, err
	}

	format := glFormat(desc.Format)

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	// Rows are tightly packed; RGB and RED rows are not 4-byte aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(desc.Width), int32(desc.Height), 0,
		format, gl.UNSIGNED_BYTE, unsafe.Pointer(&desc.Pixels[0]))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	if desc.Sampler.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(desc.Sampler.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(desc.Sampler.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.Sampler.MinFilter, desc.Sampler.Mipmaps))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.Sampler.MagFilter, false))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.TextureID(texID), nil
}

// DeleteTexture implements gpu.Device.
func (d *Device) DeleteTexture(id gpu.TextureID) {
	if id == 0 {
		return
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

// NewVertexArray implements gpu.Device.
func (d *Device) NewVertexArray(data gpu.VertexData) (gpu.VertexArray, error) {
	if err := gpu.ValidateVertexData(data); err != nil {
		return gpu.VertexArray{}, err
	}

	va := gpu.VertexArray{IndexCount: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &va.VAO)
	gl.GenBuffers(1, &va.VBO)
	gl.GenBuffers(1, &va.EBO)

	gl.BindVertexArray(va.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, va.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices), bytesPtr(data.Vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, indicesPtr(data.Indices), gl.STATIC_DRAW)

	for _, a := range data.Attribs {
		gl.EnableVertexAttribArray(a.Slot)
		if a.Integer {
			gl.VertexAttribIPointerWithOffset(a.Slot, a.Size, glAttribType(a.Type), data.Stride, a.Offset)
		} else {
			gl.VertexAttribPointerWithOffset(a.Slot, a.Size, glAttribType(a.Type), false, data.Stride, a.Offset)
		}
	}

	gl.BindVertexArray(0)
	return va, nil
}

// DeleteVertexArray implements gpu.Device.
func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
	if va.VBO != 0 {
		gl.DeleteBuffers(1, &va.VBO)
	}
	if va.EBO != 0 {
		gl.DeleteBuffers(1, &va.EBO)
	}
}

// ActiveTexture implements gpu.Device.
func (d *Device) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

// BindTexture2D implements gpu.Device.
func (d *Device) BindTexture2D(id gpu.TextureID) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

// BindVertexArray implements gpu.Device.
func (d *Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

// DrawTriangles implements gpu.Device.
func (d *Device) DrawTriangles(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func indicesPtr(idx []uint32) unsafe.Pointer {
	if len(idx) == 0 {
		return nil
	}
	return unsafe.Pointer(&idx[0])
}

func glFormat(f gpu.PixelFormat) uint32 {
	switch f {
	case gpu.FormatRed:
		return gl.RED
	case gpu.FormatRGB:
		return gl.RGB
	default:
		return gl.RGBA
	}
}

func glWrap(w gpu.Wrap) int32 {
	switch w {
	case gpu.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

func glFilter(f gpu.Filter, mipmaps bool) int32 {
	switch f {
	case gpu.FilterNearest:
		return gl.NEAREST
	case gpu.FilterLinearMipmapLinear:
		if mipmaps {
			return gl.LINEAR_MIPMAP_LINEAR
		}
		// Mipmap filtering without a mip chain leaves the texture incomplete.
		return gl.LINEAR
	default:
		return gl.LINEAR
	}
}

func glAttribType(t gpu.AttribType) uint32 {
	if t == gpu.AttribInt {
		return gl.INT
	}
	return gl.FLOAT
}
