package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api/respond"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/services"
)

// TagHandler serves both the tag catalogue and per-prompt assignments.
type TagHandler struct {
	svc *services.TagService
	log zerolog.Logger
}

func NewTagHandler(svc *services.TagService, log zerolog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: log}
}

type createTagRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

type renameTagRequest struct {
	Name string `json:"name"`
}

type assignTagRequest struct {
	TagID model.TagID `json:"tag_id"`
}

// ListTags GET /tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": tags, "total": len(tags)})
}

// CreateTag POST /tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.svc.Create(r.Context(), req.Name, req.CreatedBy)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, tag)
}

// GetTag GET /tags/{id}
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.svc.Get(r.Context(), model.TagID(mux.Vars(r)["id"]))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, tag)
}

// RenameTag PUT /tags/{id}
func (h *TagHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	var req renameTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.svc.Rename(r.Context(), model.TagID(mux.Vars(r)["id"]), req.Name)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, tag)
}

// DeleteTag DELETE /tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existed, err := h.svc.Delete(r.Context(), model.TagID(id))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if !existed {
		respond.WriteErrorReason(w, http.StatusNotFound, "TAG_NOT_FOUND", "tag not found: "+id)
		return
	}
	respond.WriteNoContent(w)
}

// ListPromptTags GET /prompts/{id}/tags
func (h *TagHandler) ListPromptTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListForPrompt(r.Context(), promptID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": tags, "total": len(tags)})
}

// AssignTag POST /prompts/{id}/tags
func (h *TagHandler) AssignTag(w http.ResponseWriter, r *http.Request) {
	var req assignTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pt, err := h.svc.Assign(r.Context(), promptID(r), req.TagID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, pt)
}

// UnassignTag DELETE /prompts/{id}/tags/{tagId}
func (h *TagHandler) UnassignTag(w http.ResponseWriter, r *http.Request) {
	pt, err := h.svc.Unassign(r.Context(), promptID(r), model.TagID(mux.Vars(r)["tagId"]))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, pt)
}
