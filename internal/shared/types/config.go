package types

// Config represents the application configuration that can be loaded from a
// TOML, YAML or JSON file.
type Config struct {
	DBPath      string    `json:"db_path" yaml:"db_path" toml:"db_path"`
	ReportID    string    `json:"report_id" yaml:"report_id" toml:"report_id"`
	ReportName  string    `json:"report_name" yaml:"report_name" toml:"report_name"`
	Dir         string    `json:"dir" yaml:"dir" toml:"dir"`
	Sections    []string  `json:"sections" yaml:"sections" toml:"sections"`
	Margins     []float64 `json:"margins_mm" yaml:"margins_mm" toml:"margins_mm"` // left, top, right, bottom
	Orientation string    `json:"orientation" yaml:"orientation" toml:"orientation"`
	PageSize    string    `json:"page_size" yaml:"page_size" toml:"page_size"`
	SkipPreview bool      `json:"skip_preview" yaml:"skip_preview" toml:"skip_preview"`
	S3Bucket    string    `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix    string    `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	S3Region    string    `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	ListenAddr  string    `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
}
