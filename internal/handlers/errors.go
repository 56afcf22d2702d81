package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/transmission"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
)

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *transmission.ValidationError
	var credErr *vault.CredentialError
	var schemaErr *transmission.SchemaError
	var fieldErr *documents.FieldError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    "document is not valid for transmission",
			"errors":   validationErr.Result.Errors,
			"warnings": validationErr.Result.Warnings,
		})
	case errors.As(err, &fieldErr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": fieldErr.Error(),
			"field": fieldErr.Field,
		})
	case errors.As(err, &credErr):
		respondError(w, http.StatusPreconditionFailed, credErr.Error())
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, transmission.ErrNotFound), errors.Is(err, vault.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, transmission.ErrAlreadySent), errors.Is(err, transmission.ErrInFlight), errors.Is(err, documents.ErrHasTransmissions):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &schemaErr):
		log.Printf("❌ Encoder rejected document: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		log.Printf("❌ Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
