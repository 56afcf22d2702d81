package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anhardeni/tps40-merak-sub001/internal/middleware"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/gorilla/mux"
)

// CredentialRequest creates or updates a service credential.
// Omitting password keeps the stored secret.
type CredentialRequest struct {
	Username string  `json:"username"`
	Password *string `json:"password"`
	Endpoint string  `json:"endpoint"`
	IsActive bool    `json:"isActive"`
	TestMode bool    `json:"testMode"`
}

func (r *Router) listCredentials(w http.ResponseWriter, req *http.Request) {
	views, err := r.Vault.List(req.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (r *Router) getCredential(w http.ResponseWriter, req *http.Request) {
	service, err := vault.ParseServiceName(mux.Vars(req)["service"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	cred, err := r.Vault.Get(req.Context(), service)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, r.Vault.Describe(*cred))
}

func (r *Router) saveCredential(w http.ResponseWriter, req *http.Request) {
	service, err := vault.ParseServiceName(mux.Vars(req)["service"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	var body CredentialRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	cred, err := r.Vault.Save(req.Context(), vault.Input{
		Service:  service,
		Username: body.Username,
		Secret:   body.Password,
		Endpoint: body.Endpoint,
		Active:   body.IsActive,
		TestMode: body.TestMode,
		Actor:    middleware.Actor(req.Context()),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, r.Vault.Describe(*cred))
}

func (r *Router) testCredential(w http.ResponseWriter, req *http.Request) {
	service, err := vault.ParseServiceName(mux.Vars(req)["service"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	entry, err := r.Diagnostics.TestConnection(req.Context(), service, middleware.Actor(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
