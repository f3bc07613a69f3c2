package texture

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
	"github.com/Faultbox/modelkit/internal/logger"
)

// LoadError reports an image that could not be decoded or uploaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("texture %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// placeholderKey cannot collide with a cleaned file path.
const placeholderKey = "\x00placeholder"

// Cache maps normalized source paths to GPU textures. Every distinct path is
// decoded and uploaded at most once for the lifetime of the cache; failures
// are not cached, so a later Resolve of the same path retries.
//
// Resolve is serialized, so one cache can be shared by several loaders.
// GPU calls still have to come from the context thread.
type Cache struct {
	mu      sync.Mutex
	device  gpu.Device
	decoder Decoder
	sampler gpu.Sampler
	entries map[string]gpu.TextureID
	log     *zap.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithSampler overrides the sampler applied to every upload.
func WithSampler(s gpu.Sampler) CacheOption {
	return func(c *Cache) {
		c.sampler = s
	}
}

// WithLogger sets the logger. Defaults to the "texture" child of the global logger.
func WithLogger(l *zap.Logger) CacheOption {
	return func(c *Cache) {
		c.log = l
	}
}

// NewCache creates an empty cache uploading to device. A nil decoder reads
// images from the file system.
func NewCache(device gpu.Device, decoder Decoder, opts ...CacheOption) *Cache {
	if decoder == nil {
		decoder = FileDecoder{}
	}
	c := &Cache{
		device:  device,
		decoder: decoder,
		sampler: gpu.DefaultSampler,
		entries: make(map[string]gpu.TextureID),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("texture")
	}
	return c
}

// NormalizePath returns the cache key for a path.
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Resolve returns the texture for path, decoding and uploading it on first use.
// The returned handle is the same for every call with an equivalent path; the
// role only tags the returned reference.
func (c *Cache) Resolve(path string, role Role) (Texture, error) {
	key := NormalizePath(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.entries[key]; ok {
		return Texture{ID: id, Role: role, Path: key}, nil
	}

	img, err := c.decoder.Decode(path)
	if err == nil {
		err = img.validate()
	}
	if err != nil {
		return Texture{}, &LoadError{Path: key, Err: err}
	}

	id, err := c.upload(img)
	if err != nil {
		return Texture{}, &LoadError{Path: key, Err: err}
	}

	c.entries[key] = id
	c.log.Debug("texture uploaded",
		zap.String("path", key),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("channels", img.Channels),
		zap.Uint32("id", uint32(id)),
	)
	return Texture{ID: id, Role: role, Path: key}, nil
}

// Placeholder returns a 1x1 opaque white texture for role, uploading it once.
// It stands in for textures that failed to load.
func (c *Cache) Placeholder(role Role) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.entries[placeholderKey]; ok {
		return Texture{ID: id, Role: role}, nil
	}
	id, err := c.upload(Solid(255, 255, 255, 255))
	if err != nil {
		return Texture{}, fmt.Errorf("placeholder texture: %w", err)
	}
	c.entries[placeholderKey] = id
	return Texture{ID: id, Role: role}, nil
}

func (c *Cache) upload(img *Image) (gpu.TextureID, error) {
	format, ok := gpu.FormatForChannels(img.Channels)
	if !ok {
		return 0, fmt.Errorf("unsupported channel count %d", img.Channels)
	}
	return c.device.NewTexture2D(gpu.TextureDesc{
		Width:   img.Width,
		Height:  img.Height,
		Format:  format,
		Pixels:  img.Pix,
		Sampler: c.sampler,
	})
}

// Lookup returns the cached handle for path without loading it.
func (c *Cache) Lookup(path string) (gpu.TextureID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[NormalizePath(path)]
	return id, ok
}

// Len returns the number of cached textures, placeholder included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Release deletes every cached texture. Meshes still referencing them must
// not be drawn afterwards.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, id := range c.entries {
		c.device.DeleteTexture(id)
		delete(c.entries, key)
	}
}
