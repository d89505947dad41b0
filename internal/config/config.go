// Package config handles exporter configuration loading and management.
package config

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds export defaults, overridable per run from the command
// line.
type ExportConfig struct {
	LayerHeight float64  `yaml:"layer_height"` // Print layer height in mm
	Colors      []string `yaml:"colors"`       // Hex colors for alternating layers
	Tolerance   float64  `yaml:"tolerance"`    // Tessellation tolerance in mm
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			LayerHeight: 0.2,
			Colors:      []string{"#FF0000", "#0000FF"},
			Tolerance:   0.01,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
