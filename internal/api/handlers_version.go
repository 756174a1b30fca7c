package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api/respond"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/services"
)

type VersionHandler struct {
	svc *services.VersionService
	log zerolog.Logger
}

func NewVersionHandler(svc *services.VersionService, log zerolog.Logger) *VersionHandler {
	return &VersionHandler{svc: svc, log: log}
}

type recordVersionRequest struct {
	Content        string `json:"content"`
	ChangesSummary string `json:"changes_summary"`
}

// ListVersions GET /prompts/{id}/versions
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.List(r.Context(), promptID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"versions": vs, "total": len(vs)})
}

// RecordVersion POST /prompts/{id}/versions
func (h *VersionHandler) RecordVersion(w http.ResponseWriter, r *http.Request) {
	var req recordVersionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.svc.Record(r.Context(), promptID(r), req.Content, req.ChangesSummary)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

// RevertVersion POST /prompts/{id}/versions/{versionId}/revert
func (h *VersionHandler) RevertVersion(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Revert(r.Context(), promptID(r), model.VersionID(mux.Vars(r)["versionId"]))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
