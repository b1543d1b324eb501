package types

// CLIArgs represents the command-line arguments for one export run.
type CLIArgs struct {
	ConfigFile  string
	DBPath      string
	ReportID    string
	ReportName  string
	Dir         string
	Sections    []string
	Margins     []float64
	Orientation string
	PageSize    string
	SkipPreview bool
	ShowBars    bool
	S3Bucket    string
	S3Prefix    string
	S3Region    string
}

// ExportOutcome reporta o resultado de uma exportação para o chamador.
type ExportOutcome struct {
	Confirmed bool
	LocalPath string
	CloudPath string
	Pages     int
}
