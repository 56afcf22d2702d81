package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anhardeni/tps40-merak-sub001/internal/middleware"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/transmission"
)

const maxBulkDocuments = 200

// BulkRequest lists the documents of a bulk send
type BulkRequest struct {
	DocumentIDs []uint `json:"documentIds"`
}

func (r *Router) sendDocument(w http.ResponseWriter, req *http.Request) {
	r.transmit(w, req, r.Transmissions.Send)
}

func (r *Router) retryDocument(w http.ResponseWriter, req *http.Request) {
	r.transmit(w, req, r.Transmissions.Retry)
}

// transmit runs one attempt. A failed attempt is still a 200 with success=false.
func (r *Router) transmit(w http.ResponseWriter, req *http.Request, op func(ctx context.Context, id uint, actor string) (*transmission.Outcome, error)) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	outcome, err := op(req.Context(), id, middleware.Actor(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (r *Router) sendBulk(w http.ResponseWriter, req *http.Request) {
	var bulk BulkRequest
	if err := json.NewDecoder(req.Body).Decode(&bulk); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(bulk.DocumentIDs) == 0 {
		respondError(w, http.StatusBadRequest, "documentIds is required")
		return
	}
	if len(bulk.DocumentIDs) > maxBulkDocuments {
		respondError(w, http.StatusBadRequest, "too many documents in one bulk send")
		return
	}

	result := r.Transmissions.SendBulk(req.Context(), bulk.DocumentIDs, middleware.Actor(req.Context()))
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) transmissionHistory(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	logs, err := r.Transmissions.History(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
