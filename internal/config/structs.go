package config

// Config represents the complete configuration for the docwarp application.
// It covers the process and serve commands and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Debug artifact output
	Debug DebugConfig `mapstructure:"debug" yaml:"debug" json:"debug"`

	// Accelerator configuration
	Accelerator AcceleratorConfig `mapstructure:"accelerator" yaml:"accelerator" json:"accelerator"`
}

// PipelineConfig contains document extraction pipeline settings.
type PipelineConfig struct {
	// Segmentation strategy: threshold, watershed, grabcut or neural-net.
	Strategy string `mapstructure:"strategy" yaml:"strategy" json:"strategy"`

	// Strategy used when the neural session cannot be created.
	FallbackStrategy string `mapstructure:"fallback_strategy" yaml:"fallback_strategy" json:"fallback_strategy"`

	// Padding around the rectified document, as a fraction of its dimensions.
	PaddingRatio float64 `mapstructure:"padding_ratio" yaml:"padding_ratio" json:"padding_ratio"`

	// Neural model variant: u2net, u2netp or silueta.
	ModelVariant string `mapstructure:"model_variant" yaml:"model_variant" json:"model_variant"`

	// Probability threshold applied to the neural mask output.
	MaskThreshold float64 `mapstructure:"mask_threshold" yaml:"mask_threshold" json:"mask_threshold"`

	// ONNX Runtime intra-op thread count.
	NumThreads int `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`

	// GrabCut initialization rectangle inset as a fraction of each dimension.
	GrabCutMarginRatio float64 `mapstructure:"grabcut_margin_ratio" yaml:"grabcut_margin_ratio" json:"grabcut_margin_ratio"`

	// GrabCut refinement iterations.
	GrabCutIterations int `mapstructure:"grabcut_iterations" yaml:"grabcut_iterations" json:"grabcut_iterations"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DebugConfig controls debug artifact dumps. Dumps never affect results;
// write failures are logged and otherwise ignored.
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// AcceleratorConfig contains hardware acceleration settings.
type AcceleratorConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Device  int  `mapstructure:"device" yaml:"device" json:"device"`
}
