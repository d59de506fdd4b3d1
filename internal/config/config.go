// Package config defines rosterhound configuration and its loading.
//
// Precedence (low -> high): built-in defaults, YAML file, ROSTERHOUND_*
// environment variables.
package config

type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutputDir is where export files are written.
	OutputDir string `koanf:"output_dir"`

	// XLSX additionally writes a workbook export next to the CSV.
	XLSX bool `koanf:"xlsx"`

	Browser Browser `koanf:"browser"`
	Sync    Sync    `koanf:"sync"`
}

// Browser configures how the live scheduler page is reached.
type Browser struct {
	// DebuggerURL attaches to an already-running Chrome DevTools endpoint.
	// Empty means launch a fresh instance.
	DebuggerURL string `koanf:"debugger_url"`

	// Bin overrides the Chrome binary used when launching.
	Bin string `koanf:"bin"`

	Headless       bool `koanf:"headless"`
	ViewportWidth  int  `koanf:"viewport_width"`
	ViewportHeight int  `koanf:"viewport_height"`

	// PageURL opens the scheduler page when no existing tab renders one.
	PageURL string `koanf:"page_url"`

	NavigationTimeoutMs int `koanf:"navigation_timeout_ms"`
}

// Sync tunes the week-stabilization poll loop.
type Sync struct {
	PollIntervalMs   int `koanf:"poll_interval_ms"`
	SettleDelayMs    int `koanf:"settle_delay_ms"`
	StableThreshold  int `koanf:"stable_threshold"`
	MaxAttempts      int `koanf:"max_attempts"`
	InterWeekDelayMs int `koanf:"inter_week_delay_ms"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: ".",
		Browser: Browser{
			Headless:            false,
			ViewportWidth:       1920,
			ViewportHeight:      1080,
			NavigationTimeoutMs: 30000,
		},
		Sync: Sync{
			PollIntervalMs:   500,
			SettleDelayMs:    1000,
			StableThreshold:  3,
			MaxAttempts:      30,
			InterWeekDelayMs: 1000,
		},
	}
}
