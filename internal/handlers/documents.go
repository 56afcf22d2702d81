package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/codec/preview"
	"github.com/anhardeni/tps40-merak-sub001/internal/middleware"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
)

func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	f := documents.Filter{
		Status:       q.Get("status"),
		Transmission: q.Get("transmission"),
		Search:       q.Get("q"),
	}
	if f.Transmission != "" {
		if _, err := models.ParseTransmissionState(f.Transmission); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	docs, total, err := r.Documents.List(req.Context(), f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  docs,
		"total": total,
	})
}

func (r *Router) createDocument(w http.ResponseWriter, req *http.Request) {
	var doc models.Document
	if err := json.NewDecoder(req.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := r.Documents.Create(req.Context(), &doc, middleware.Actor(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	doc, err := r.Documents.Get(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (r *Router) deleteDocument(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	if err := r.Documents.Delete(req.Context(), id, middleware.Actor(req.Context())); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) addTangki(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	var item models.Tangki
	if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := r.Documents.AddLineItem(req.Context(), id, item, middleware.Actor(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// documentXML returns the exact payload that a send would upload
func (r *Router) documentXML(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	doc, err := r.Documents.Get(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload, err := r.Transmissions.GenerateXML(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if req.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cocotangki.Filename(doc.RefNumber)))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// documentPreview renders an internal export (json, xml or pdf)
func (r *Router) documentPreview(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	format := req.URL.Query().Get("format")
	if format == "" {
		format = preview.FormatJSON
	}

	doc, err := r.Documents.Get(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	body, contentType, err := preview.Render(doc, format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (r *Router) validateDocument(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid document id")
		return
	}
	result, err := r.Transmissions.Validate(req.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
