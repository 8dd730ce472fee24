// Package config handles compiler option loading and validation.
package config

// Format selects what the compiler emits.
type Format string

// Output formats. FormatUnset is resolved from the output path.
const (
	FormatUnset  Format = ""
	FormatVerify Format = "verify"
	FormatBVH    Format = "bvh"
	FormatOBJ    Format = "obj"
)

// Config holds all compiler settings.
type Config struct {
	Input     string          `yaml:"input"`
	Output    string          `yaml:"output"` // Empty for stdout
	Format    Format          `yaml:"format"`
	Transform TransformConfig `yaml:"transform"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TransformConfig holds the scene rewrite switches.
type TransformConfig struct {
	Root       bool `yaml:"root"`       // Box the root even if a single node would do
	Wrap       bool `yaml:"wrap"`       // Instances hold only boxes directly
	BoxSize    int  `yaml:"box_size"`   // Max children per box, 0 for unbounded
	Double     bool `yaml:"double"`     // Boxes hold one child or only boxes
	Raw        bool `yaml:"raw"`        // Skip every transform
	Split      bool `yaml:"split"`      // Split strips into triangles
	TotalBox   bool `yaml:"total_box"`  // Rays count toward box bounds
	Instancing int  `yaml:"instancing"` // Max instance levels, 0 for unbounded
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Format: FormatUnset,
		Transform: TransformConfig{
			TotalBox: true,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}
