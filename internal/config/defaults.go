package config

const (
	defaultWorkDir             = "~/.local/share/markfind/work"
	defaultLogDir              = "~/.local/share/markfind/logs"
	defaultDatabasePath        = "~/.local/share/markfind/watermarks.db"
	defaultSceneThreshold      = 0.4
	defaultSamplingFPS         = 1.0
	defaultConfidenceThreshold = 0.75
	defaultLanguages           = "eng"
	defaultToolTimeoutSeconds  = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:      defaultWorkDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Scan: Scan{
			SceneThreshold:      defaultSceneThreshold,
			SamplingFPS:         defaultSamplingFPS,
			ConfidenceThreshold: defaultConfidenceThreshold,
			DefaultROIs: []ROI{
				{X: 10, Y: 10, Width: 200, Height: 50},
				{X: 10, Y: 300, Width: 200, Height: 50},
			},
		},
		Tools: Tools{
			Languages:      defaultLanguages,
			TimeoutSeconds: defaultToolTimeoutSeconds,
		},
		Import: Import{
			SupportedFormats: []string{"mp4", "avi", "mov", "mkv"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
