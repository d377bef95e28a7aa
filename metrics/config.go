package metrics

// Config contains the configuration for the metric collection.
type Config struct {
	Enabled bool `toml:",omitempty" yaml:"enabled" env:"ENABLED"`
	// Textfile is the path the collected metrics are written to, in the
	// Prometheus text exposition format, when a run completes.
	Textfile string `toml:",omitempty" yaml:"textfile" env:"TEXTFILE"`
}

// DefaultConfig is the default config for metrics used in swapproxy.
var DefaultConfig = Config{
	Enabled:  false,
	Textfile: "swapproxy.prom",
}
