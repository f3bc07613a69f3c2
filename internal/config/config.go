// Package config handles model loader and viewer configuration.
package config

// Config holds all settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Model    ModelConfig    `yaml:"model"`
	Textures TexturesConfig `yaml:"textures"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ModelConfig holds the model source settings.
type ModelConfig struct {
	Path string `yaml:"path"` // Model file to load (glTF or GLB)
	// SharedTextureCache makes every loaded model resolve textures through one
	// process-wide cache instead of one cache per model.
	SharedTextureCache bool `yaml:"shared_texture_cache"`
}

// Missing texture policies.
const (
	MissingSkip        = "skip"
	MissingPlaceholder = "placeholder"
	MissingFail        = "fail"
)

// Role mappings.
const (
	RoleMappingStandard = "standard"
	RoleMappingLegacy   = "legacy"
)

// TexturesConfig holds texture resolution settings.
type TexturesConfig struct {
	Missing     string `yaml:"missing"`      // skip, placeholder or fail
	RoleMapping string `yaml:"role_mapping"` // standard or legacy
}

// CameraConfig holds viewer projection settings.
type CameraConfig struct {
	FOV  float32 `yaml:"fov"` // Vertical field of view in degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "modelkit",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Model: ModelConfig{
			Path:               "",
			SharedTextureCache: true,
		},
		Textures: TexturesConfig{
			Missing:     MissingSkip,
			RoleMapping: RoleMappingStandard,
		},
		Camera: CameraConfig{
			FOV:  45,
			Near: 0.1,
			Far:  1000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
