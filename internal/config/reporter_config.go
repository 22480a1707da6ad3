package config

// ReporterConfig defines configuration for report generation
type ReporterConfig struct {
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// NewDefaultReporterConfig creates default reporter configuration
func NewDefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		OutputFile: DefaultReporterOutputFile,
	}
}
