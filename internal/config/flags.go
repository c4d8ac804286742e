package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagMergeScope = flag.String("merge-scope", "", "Vertex merge scope: block or file")
	flagJSON       = flag.Bool("json", false, "Write machine-readable JSON output")
	flagProgress   = flag.Bool("progress", false, "Log decode progress")
	flagMetrics    = flag.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMergeScope != "" {
		cfg.Reader.MergeScope = *flagMergeScope
	}
	if *flagJSON {
		cfg.Output.JSON = true
	}
	if *flagProgress {
		cfg.Output.ShowProgress = true
	}
	if *flagMetrics != "" {
		cfg.Output.MetricsFile = *flagMetrics
	}
}
