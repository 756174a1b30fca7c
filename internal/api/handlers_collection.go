package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api/respond"
	"github.com/promptlab/promptlab/internal/model"
	"github.com/promptlab/promptlab/internal/services"
)

type CollectionHandler struct {
	svc *services.CollectionService
	log zerolog.Logger
}

func NewCollectionHandler(svc *services.CollectionService, log zerolog.Logger) *CollectionHandler {
	return &CollectionHandler{svc: svc, log: log}
}

func collectionID(r *http.Request) model.CollectionID {
	return model.CollectionID(mux.Vars(r)["id"])
}

// ListCollections GET /collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"collections": cs, "total": len(cs)})
}

// CreateCollection POST /collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var in model.CollectionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, c)
}

// GetCollection GET /collections/{id}
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), collectionID(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// DeleteCollection DELETE /collections/{id}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := collectionID(r)
	existed, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if !existed {
		respond.WriteErrorReason(w, http.StatusNotFound, "COLLECTION_NOT_FOUND", "collection not found: "+string(id))
		return
	}
	respond.WriteNoContent(w)
}
