// Package gpu defines the GPU resource surface used by the asset pipeline:
// texture objects, vertex/index buffers and attribute-binding objects.
//
// All Device methods must be called on the thread that owns the graphics
// context. None of them block on anything but the driver.
package gpu

// TextureID is a GPU texture object handle. Zero is never a valid texture.
type TextureID uint32

// PixelFormat is the channel layout of uploaded pixel data.
type PixelFormat int

// Pixel formats by channel count.
const (
	FormatRed  PixelFormat = iota + 1 // 1 channel
	FormatRGB                         // 3 channels
	FormatRGBA                        // 4 channels
)

// FormatForChannels returns the pixel format for 1, 3 or 4 channels.
func FormatForChannels(channels int) (PixelFormat, bool) {
	switch channels {
	case 1:
		return FormatRed, true
	case 3:
		return FormatRGB, true
	case 4:
		return FormatRGBA, true
	}
	return 0, false
}

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRed:
		return 1
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	}
	return 0
}

// Wrap is a texture addressing mode.
type Wrap int

// Addressing modes.
const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// Filter is a texture filtering mode.
type Filter int

// Filtering modes.
const (
	FilterLinear Filter = iota
	FilterNearest
	FilterLinearMipmapLinear
)

// Sampler describes texture addressing and filtering.
type Sampler struct {
	WrapS     Wrap
	WrapT     Wrap
	MinFilter Filter
	MagFilter Filter
	Mipmaps   bool
}

// DefaultSampler is repeat addressing with trilinear minification and linear
// magnification, with a generated mipmap chain.
var DefaultSampler = Sampler{
	WrapS:     WrapRepeat,
	WrapT:     WrapRepeat,
	MinFilter: FilterLinearMipmapLinear,
	MagFilter: FilterLinear,
	Mipmaps:   true,
}

// TextureDesc describes a 2D texture upload. Pixels are tightly packed rows,
// top row first, len(Pixels) == Width*Height*Format.Channels().
type TextureDesc struct {
	Width   int
	Height  int
	Format  PixelFormat
	Pixels  []byte
	Sampler Sampler
}

// AttribType is the component type of a vertex attribute.
type AttribType int

// Attribute component types.
const (
	AttribFloat AttribType = iota
	AttribInt
)

// VertexAttrib binds a range of each vertex record to an attribute slot.
// Integer attributes are passed to the shader unconverted.
type VertexAttrib struct {
	Slot    uint32
	Size    int32 // component count
	Type    AttribType
	Integer bool
	Offset  uintptr
}

// VertexArray is the set of GPU objects backing one drawable mesh.
type VertexArray struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// VertexData describes vertex and index storage for NewVertexArray.
// Vertices holds len(Vertices)/Stride records laid out per Attribs.
type VertexData struct {
	Vertices []byte
	Stride   int32
	Attribs  []VertexAttrib
	Indices  []uint32
}

// Device is the GPU resource surface.
type Device interface {
	// NewTexture2D uploads a texture and applies its sampler state.
	NewTexture2D(desc TextureDesc) (TextureID, error)
	// DeleteTexture releases a texture object.
	DeleteTexture(id TextureID)

	// NewVertexArray allocates vertex and index buffers sized exactly to data
	// and records the attribute layout in a new attribute-binding object.
	NewVertexArray(data VertexData) (VertexArray, error)
	// DeleteVertexArray releases the objects of a vertex array.
	DeleteVertexArray(va VertexArray)

	// ActiveTexture selects the texture unit subsequent binds apply to.
	ActiveTexture(unit uint32)
	// BindTexture2D binds a texture to the active unit.
	BindTexture2D(id TextureID)
	// BindVertexArray binds an attribute-binding object; zero unbinds.
	BindVertexArray(vao uint32)
	// DrawTriangles issues one indexed draw of count indices as a triangle list
	// from the bound vertex array.
	DrawTriangles(count int32)
}
