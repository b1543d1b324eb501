// Package chart rasterizes report charts to reproducibly sized PNG images
// for embedding in the exported document.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
)

// Paleta das séries: azul para orçamento, laranja para anticipated final.
var (
	budgetStyle = chartlib.Style{FillColor: chartlib.ColorBlue, StrokeColor: chartlib.ColorBlue, StrokeWidth: 0}
	finalStyle  = chartlib.Style{FillColor: chartlib.ColorOrange, StrokeColor: chartlib.ColorOrange, StrokeWidth: 0}
)

// Capturer implementa o ChartCapturer.
type Capturer struct {
	settleDelay time.Duration
}

var _ repository.ChartCapturer = (*Capturer)(nil)

// NewCapturer cria um capturador com o settle delay padrão.
func NewCapturer() *Capturer {
	return &Capturer{settleDelay: 150 * time.Millisecond}
}

// WithSettleDelay troca o atraso fixo antes da rasterização (os testes usam
// zero).
func (c *Capturer) WithSettleDelay(d time.Duration) *Capturer {
	c.settleDelay = d
	return c
}

// Capture renders the requested chart and normalizes the raster to exactly
// the requested dimensions. Missing data is non-fatal: the chart is skipped
// with a warning and the document simply omits it.
func (c *Capturer) Capture(ctx context.Context, req entity.ChartRequest) (*entity.CapturedChart, error) {
	logger := zerolog.Ctx(ctx)

	if len(req.Categories) == 0 {
		logger.Warn().Str("chart", req.Title).Msg("no data for chart, skipping capture")
		return nil, nil
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 360
	}

	// Espera o settle delay antes de rasterizar; cancelamento aborta a espera.
	if c.settleDelay > 0 {
		select {
		case <-time.After(c.settleDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var buf bytes.Buffer
	var err error
	switch req.Kind {
	case entity.ChartBudgetVsFinal:
		err = renderBudgetVsFinal(&buf, req, width, height)
	case entity.ChartCostSplit:
		err = renderCostSplit(&buf, req, width, height)
	default:
		return nil, fmt.Errorf("unknown chart kind %d", req.Kind)
	}
	if err != nil {
		logger.Warn().Err(err).Str("chart", req.Title).Msg("chart rendering failed, skipping capture")
		return nil, nil
	}

	png, err := normalizePNG(buf.Bytes(), width, height)
	if err != nil {
		return nil, fmt.Errorf("normalizing chart image %q: %w", req.Title, err)
	}

	return &entity.CapturedChart{Title: req.Title, PNG: png, Width: width, Height: height}, nil
}

// renderBudgetVsFinal desenha pares de barras orçamento/final por categoria.
func renderBudgetVsFinal(buf *bytes.Buffer, req entity.ChartRequest, width, height int) error {
	bars := make([]chartlib.Value, 0, len(req.Categories)*2)
	for _, cat := range req.Categories {
		bars = append(bars,
			chartlib.Value{Label: cat.Name + " (budget)", Value: cat.OriginalBudget, Style: budgetStyle},
			chartlib.Value{Label: cat.Name + " (final)", Value: cat.AnticipatedFinal(), Style: finalStyle},
		)
	}

	graph := chartlib.BarChart{
		Title:    req.Title,
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Bars:     bars,
		XAxis:    chartlib.Style{TextRotationDegrees: 45},
	}
	return graph.Render(chartlib.PNG, buf)
}

// renderCostSplit desenha a divisão de custo por categoria.
func renderCostSplit(buf *bytes.Buffer, req entity.ChartRequest, width, height int) error {
	values := make([]chartlib.Value, 0, len(req.Categories))
	total := 0.0
	for _, cat := range req.Categories {
		final := cat.AnticipatedFinal()
		if final <= 0 {
			continue
		}
		total += final
		values = append(values, chartlib.Value{Label: cat.Name, Value: final})
	}
	if total <= 0 {
		return fmt.Errorf("cost split chart has no positive totals")
	}

	graph := chartlib.PieChart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return graph.Render(chartlib.PNG, buf)
}

// normalizePNG garante que a imagem capturada tenha exatamente as dimensões
// pedidas, redimensionando quando a engine de gráficos devolver outra coisa.
func normalizePNG(raw []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
