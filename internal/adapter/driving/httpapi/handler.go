package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wattbuild/costreport-go/internal/application/section"
	"github.com/wattbuild/costreport-go/internal/application/usecase"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

// Handler expõe os relatórios do banco de projeto pela API HTTP.
type Handler struct {
	reportRepo repository.ReportRepository
	exportUC   *usecase.ExportUseCase
}

func NewHandler(reportRepo repository.ReportRepository, exportUC *usecase.ExportUseCase) *Handler {
	return &Handler{
		reportRepo: reportRepo,
		exportUC:   exportUC,
	}
}

// summaryResponse é o corpo de GET /reports/{reportID}/summary.
type summaryResponse struct {
	Report     *entity.Report       `json:"report"`
	Summary    entity.ReportSummary `json:"summary"`
	Categories []categorySummary    `json:"categories"`
}

type categorySummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	OriginalBudget   float64 `json:"original_budget"`
	AnticipatedFinal float64 `json:"anticipated_final"`
	Variance         float64 `json:"variance"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.reportRepo.ListReports(ctx)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list reports", err)
		return
	}
	if reports == nil {
		reports = []entity.Report{}
	}
	writeJSON(w, r, http.StatusOK, reports)
}

func (h *Handler) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "reportID")

	report, err := h.reportRepo.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, types.ErrReportNotFound) {
			writeError(w, r, http.StatusNotFound, "report not found", err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load report", err)
		return
	}

	categories, err := h.reportRepo.GetCategories(ctx, reportID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load categories", err)
		return
	}

	resp := summaryResponse{
		Report:     report,
		Summary:    entity.Summarize(categories),
		Categories: make([]categorySummary, 0, len(categories)),
	}
	for _, cat := range categories {
		resp.Categories = append(resp.Categories, categorySummary{
			ID:               cat.ID,
			Name:             cat.Name,
			OriginalBudget:   cat.OriginalBudget,
			AnticipatedFinal: cat.AnticipatedFinal(),
			Variance:         cat.Variance(),
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// ExportReport renderiza o documento e devolve o PDF no corpo da resposta.
// A seleção de seções e as opções de página vêm da query string.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "reportID")

	opts, pageOpts, err := exportOptionsFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	pdf, pages, data, err := h.exportUC.BuildAndRender(ctx, reportID, opts, pageOpts)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrReportNotFound):
			writeError(w, r, http.StatusNotFound, "report not found", err)
		case errors.Is(err, types.ErrNoSectionsEnabled):
			writeError(w, r, http.StatusBadRequest, "no document sections enabled", err)
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to render document", err)
		}
		return
	}

	filename := strings.ReplaceAll(data.Label(reportID), " ", "_") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Document-Pages", fmt.Sprintf("%d", pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to write PDF response")
	}
}

// exportOptionsFromQuery lê sections, orientation e page_size da query
// string.
func exportOptionsFromQuery(r *http.Request) (section.Options, entity.PageOptions, error) {
	var names []string
	if raw := r.URL.Query().Get("sections"); raw != "" {
		names = strings.Split(raw, ",")
	}

	opts, err := usecase.SectionOptions(names, "")
	if err != nil {
		return section.Options{}, entity.PageOptions{}, err
	}

	pageOpts, err := usecase.PageOptions(&types.Config{
		Orientation: r.URL.Query().Get("orientation"),
		PageSize:    r.URL.Query().Get("page_size"),
	})
	if err != nil {
		return section.Options{}, entity.PageOptions{}, err
	}
	return opts, pageOpts, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg(message)
	writeJSON(w, r, status, map[string]string{"error": message})
}
