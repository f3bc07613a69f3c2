// Package assets wires configuration to the model loader and keeps loaded
// models by path.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/config"
	"github.com/Faultbox/modelkit/internal/engine/gpu"
	"github.com/Faultbox/modelkit/internal/engine/model"
	"github.com/Faultbox/modelkit/internal/engine/texture"
	"github.com/Faultbox/modelkit/internal/logger"
	"github.com/Faultbox/modelkit/pkg/formats"
	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

// ErrUnsupportedFormat is returned for files no importer handles.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// ParseScene imports a scene file, picking the importer by extension.
func ParseScene(path string) (*scenegraph.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return formats.LoadGLTF(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Manager loads models and keeps them until unloaded. Models are keyed by
// cleaned path, so loading the same file twice returns the same model.
type Manager struct {
	device gpu.Device
	loader *model.Loader
	shared *texture.Cache // nil when each model owns its textures
	models map[string]*model.Model
	mu     sync.Mutex
	log    *zap.Logger

	// Stats
	hits   int
	misses int
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	parser  model.Parser
	decoder texture.Decoder
}

// WithParser replaces the extension-based importer.
func WithParser(p model.Parser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithDecoder replaces the file system image decoder.
func WithDecoder(d texture.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// NewManager creates a manager uploading to device with the model and
// texture settings of cfg.
func NewManager(cfg *config.Config, device gpu.Device, opts ...Option) (*Manager, error) {
	o := options{parser: model.ParserFunc(ParseScene)}
	for _, opt := range opts {
		opt(&o)
	}

	missing, err := model.ParseMissingPolicy(cfg.Textures.Missing)
	if err != nil {
		return nil, err
	}
	sources := model.StandardRoleSources
	if cfg.Textures.RoleMapping == config.RoleMappingLegacy {
		sources = model.LegacyRoleSources
	}

	m := &Manager{
		device: device,
		models: make(map[string]*model.Model),
		log:    logger.Named("assets"),
	}

	loaderOpts := []model.LoaderOption{
		model.WithMissingPolicy(missing),
		model.WithRoleSources(sources),
		model.WithDecoder(o.decoder),
	}
	if cfg.Model.SharedTextureCache {
		m.shared = texture.NewCache(device, o.decoder)
		loaderOpts = append(loaderOpts, model.WithTextureCache(m.shared))
	}
	m.loader = model.NewLoader(device, o.parser, loaderOpts...)
	return m, nil
}

// Load returns the model at path, loading it on first use.
func (m *Manager) Load(path string) (*model.Model, error) {
	key := filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if mdl, ok := m.models[key]; ok {
		m.hits++
		return mdl, nil
	}
	m.misses++

	mdl, err := m.loader.Load(key)
	if err != nil {
		return nil, err
	}
	m.models[key] = mdl
	return mdl, nil
}

// Unload deletes the model at path. Textures in a shared cache stay.
func (m *Manager) Unload(path string) {
	key := filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if mdl, ok := m.models[key]; ok {
		mdl.Delete()
		delete(m.models, key)
		m.log.Debug("model unloaded", zap.String("path", key))
	}
}

// Textures returns the shared texture cache, or nil when models own theirs.
func (m *Manager) Textures() *texture.Cache {
	return m.shared
}

// Close deletes every model and the shared textures.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, mdl := range m.models {
		mdl.Delete()
		delete(m.models, key)
	}
	if m.shared != nil {
		m.shared.Release()
	}
}

// Stats returns how often Load found an already loaded model.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
