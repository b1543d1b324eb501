package repository

import (
	"context"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

// DocumentRenderer is the rendering-engine collaborator: it accepts a
// page-content-block tree plus page options and returns a binary document.
// Failure here is fatal to the export and never retried.
type DocumentRenderer interface {
	Render(ctx context.Context, doc entity.Document, opts entity.PageOptions) (pdf []byte, pages int, err error)
}

// ChartCapturer rasterizes an explicit chart request to a reproducibly
// sized image. A nil chart with a nil error means the chart was skipped.
type ChartCapturer interface {
	Capture(ctx context.Context, req entity.ChartRequest) (*entity.CapturedChart, error)
}
