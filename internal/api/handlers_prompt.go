package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api/respond"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/services"
)

// PromptHandler is a thin HTTP transport over PromptService.
type PromptHandler struct {
	svc *services.PromptService
	log zerolog.Logger
}

func NewPromptHandler(svc *services.PromptService, log zerolog.Logger) *PromptHandler {
	return &PromptHandler{svc: svc, log: log}
}

func promptID(r *http.Request) model.PromptID { return model.PromptID(mux.Vars(r)["id"]) }

// ListPrompts GET /prompts?collection_id=&search=
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := services.PromptFilter{Search: q.Get("search")}
	if c := q.Get("collection_id"); c != "" {
		f.CollectionID = model.Ptr(model.CollectionID(c))
	}
	prompts, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "total": len(prompts)})
}

// CreatePrompt POST /prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var in model.PromptInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, p)
}

// GetPrompt GET /prompts/{id}
func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), promptID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// ReplacePrompt PUT /prompts/{id}
func (h *PromptHandler) ReplacePrompt(w http.ResponseWriter, r *http.Request) {
	var in model.PromptInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.Replace(r.Context(), promptID(r), in)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// PatchPrompt PATCH /prompts/{id}
func (h *PromptHandler) PatchPrompt(w http.ResponseWriter, r *http.Request) {
	var patch model.PromptPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := h.svc.Patch(r.Context(), promptID(r), patch)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// DeletePrompt DELETE /prompts/{id}
func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := promptID(r)
	existed, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if !existed {
		respond.WriteErrorReason(w, http.StatusNotFound, "PROMPT_NOT_FOUND", "prompt not found: "+string(id))
		return
	}
	respond.WriteNoContent(w)
}

// RenderPrompt POST /prompts/{id}/render
func (h *PromptHandler) RenderPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variables map[string]string `json:"variables"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Render(r.Context(), promptID(r), req.Variables)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
