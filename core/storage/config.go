package storage

// Config holds the object storage settings used for integrity report uploads.
// An empty Endpoint disables storage.
type Config struct {
	// Endpoint is the S3-compatible host, with or without scheme.
	Endpoint  string `mapstructure:"endpoint" default:""`
	AccessKey string `mapstructure:"access_key" default:""`
	SecretKey string `mapstructure:"secret_key" default:""`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives integrity reports. It is created on first upload.
	Bucket string `mapstructure:"bucket" default:"catalog-reports"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether an endpoint is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}
