// Package render submits the assembled page-content blocks to the PDF
// rendering engine.
package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
)

// PDFRenderer implementa o DocumentRenderer com gofpdf.
type PDFRenderer struct{}

var _ repository.DocumentRenderer = (*PDFRenderer)(nil)

// NewPDFRenderer cria uma nova implementação do DocumentRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Palette fixa do documento, mesma convenção das tabelas no terminal.
var (
	headerColor       = [3]int{40, 40, 40}
	headerTextColor   = [3]int{255, 255, 255}
	sectionTitleColor = [3]int{0, 0, 0}
	bodyTextColor     = [3]int{50, 50, 50}
	lineColor         = [3]int{200, 200, 200}
	successColor      = [3]int{0, 128, 0}
	dangerColor       = [3]int{192, 0, 0}
	tableFillColor    = [3]int{240, 240, 240}
)

// Render converts the document description into a binary PDF. Any renderer
// failure is returned as-is: fatal to the export, never retried here.
func (r *PDFRenderer) Render(ctx context.Context, doc entity.Document, opts entity.PageOptions) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	orientation := opts.Orientation
	if orientation == "" {
		orientation = "P"
	}
	size := opts.Size
	if size == "" {
		size = "A4"
	}
	margins := opts.Margins
	if margins == (entity.Margins{}) {
		margins = entity.DefaultMargins()
	}

	pdf := gofpdf.New(orientation, "mm", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(margins.Left, margins.Top, margins.Right)
	pdf.SetAutoPageBreak(true, margins.Bottom)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("%s | %s", tr(doc.Title), time.Now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, footerText, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - margins.Left - margins.Right

	for _, block := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		switch block.Kind {
		case entity.BlockHeading:
			r.drawHeading(pdf, tr, block.Text)
		case entity.BlockSubheading:
			r.drawSubheading(pdf, tr, block.Text, contentWidth)
		case entity.BlockParagraph:
			pdf.SetFont("Arial", "", 10)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.MultiCell(contentWidth, 5, tr(block.Text), "", "L", false)
			pdf.Ln(4)
		case entity.BlockKeyValue:
			r.drawKeyValue(pdf, tr, block.Pairs, contentWidth)
		case entity.BlockTable:
			r.drawTable(pdf, tr, block, contentWidth)
		case entity.BlockImage:
			if err := r.drawImage(pdf, block.Image, contentWidth); err != nil {
				return nil, 0, err
			}
		case entity.BlockSpacer:
			pdf.Ln(10)
		case entity.BlockPageBreak:
			pdf.AddPage()
		}
	}

	if pdf.Err() {
		return nil, 0, fmt.Errorf("rendering engine error: %w", pdf.Error())
	}

	pages := pdf.PageCount()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("error producing PDF output: %w", err)
	}
	return buf.Bytes(), pages, nil
}

// drawHeading desenha a barra de título preenchida, como o cabeçalho das
// páginas do relatório.
func (r *PDFRenderer) drawHeading(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	if len(text) > 80 {
		text = text[:77] + "..."
	}
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", text)), "", 1, "L", true, 0, "")
	pdf.Ln(6)
}

// drawSubheading desenha o título de seção com a linha divisória.
func (r *PDFRenderer) drawSubheading(pdf *gofpdf.Fpdf, tr func(string) string, text string, width float64) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
	pdf.Cell(0, 8, tr(text))
	pdf.Ln(7)

	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+width, pdf.GetY())
	pdf.Ln(4)
}

func (r *PDFRenderer) drawKeyValue(pdf *gofpdf.Fpdf, tr func(string) string, pairs [][2]string, width float64) {
	keyWidth := width * 0.35
	for _, pair := range pairs {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(keyWidth, 7, tr(pair[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(width-keyWidth, 7, tr(pair[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) drawTable(pdf *gofpdf.Fpdf, tr func(string) string, block entity.Block, width float64) {
	widths := columnWidths(block, width)

	// Cabeçalho da tabela.
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(tableFillColor[0], tableFillColor[1], tableFillColor[2])
	pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
	for i, col := range block.Columns {
		pdf.CellFormat(widths[i], 7, tr(col), "B", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range block.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			style := ""
			if cell.Bold {
				style = "B"
			}
			pdf.SetFont("Arial", style, 9)

			switch cell.Emphasis {
			case entity.EmphasisSuccess:
				pdf.SetTextColor(successColor[0], successColor[1], successColor[2])
			case entity.EmphasisDanger:
				pdf.SetTextColor(dangerColor[0], dangerColor[1], dangerColor[2])
			default:
				pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			}

			align := cell.Align
			if align == "" {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(cell.Text), "B", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) drawImage(pdf *gofpdf.Fpdf, chart *entity.CapturedChart, width float64) error {
	if chart == nil || len(chart.PNG) == 0 {
		return fmt.Errorf("malformed document: image block without image data")
	}

	name := fmt.Sprintf("chart-%s-%d", chart.Title, len(chart.PNG))
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(chart.PNG))
	if pdf.Err() {
		return fmt.Errorf("registering chart image %q: %w", chart.Title, pdf.Error())
	}

	// Escala para a largura útil mantendo a proporção da captura.
	imgWidth := width
	imgHeight := 0.0
	if chart.Width > 0 && chart.Height > 0 {
		imgHeight = imgWidth * float64(chart.Height) / float64(chart.Width)
	}
	pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), imgWidth, imgHeight, true, opts, 0, "")
	pdf.Ln(6)
	return nil
}

// columnWidths converte os pesos relativos das colunas em milímetros.
func columnWidths(block entity.Block, width float64) []float64 {
	widths := make([]float64, len(block.Columns))
	totalWeight := 0.0
	for i := range block.Columns {
		w := 1.0
		if i < len(block.Widths) && block.Widths[i] > 0 {
			w = block.Widths[i]
		}
		widths[i] = w
		totalWeight += w
	}
	for i := range widths {
		widths[i] = widths[i] / totalWeight * width
	}
	return widths
}
