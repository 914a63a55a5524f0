package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/domainworth/domainworth/internal/core"
	apperrors "github.com/domainworth/domainworth/internal/errors"
)

// ReportRunner produces an appraisal report for one candidate name.
type ReportRunner func(ctx context.Context, name string) (*core.Report, error)

var reportRunner ReportRunner

// SetReportRunner injects the report engine invocation used by ReportHandler.
func SetReportRunner(runner ReportRunner) {
	reportRunner = runner
}

// ReportHandler serves GET /api/v1/report/{name}.
func ReportHandler(w http.ResponseWriter, r *http.Request) {
	if reportRunner == nil {
		respondWithError(w, r, apperrors.NewInternalError("report engine is not configured"))
		return
	}

	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))
	if name == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("name is required"))
		return
	}

	report, err := reportRunner(r.Context(), name)
	if err != nil {
		respondWithError(w, r, apperrors.WrapExternalService(r.Context(), err, "appraisal failed"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(report)
}
