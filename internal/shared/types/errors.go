package types

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found in the project database")
	ErrNoSectionsEnabled = errors.New("no document sections enabled for export")
	ErrExportCancelled   = errors.New("export cancelled by the user")
)
