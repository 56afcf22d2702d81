package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/anhardeni/tps40-merak-sub001/internal/buildinfo"
	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/middleware"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/diagnostics"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/transmission"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/anhardeni/tps40-merak-sub001/internal/websocket"
	"github.com/gorilla/mux"
)

// Deps are the services the HTTP layer exposes
type Deps struct {
	DB            *database.DB
	Documents     *documents.Service
	Transmissions *transmission.Service
	Vault         *vault.Vault
	Diagnostics   *diagnostics.Service
	Hub           *websocket.Hub
	JWTSecret     string
}

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	Deps
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(deps Deps) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		Deps:   deps,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Live transmission feed
	r.HandleFunc("/ws/transmissions", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.Hub, w, req)
	})

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(deps.JWTSecret))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Documents
	api.HandleFunc("/documents", r.listDocuments).Methods("GET")
	api.HandleFunc("/documents", r.createDocument).Methods("POST")
	api.HandleFunc("/documents/{id:[0-9]+}", r.getDocument).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}", r.deleteDocument).Methods("DELETE")
	api.HandleFunc("/documents/{id:[0-9]+}/tangki", r.addTangki).Methods("POST")
	api.HandleFunc("/documents/{id:[0-9]+}/xml", r.documentXML).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/preview", r.documentPreview).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/validate", r.validateDocument).Methods("GET", "POST")
	api.HandleFunc("/documents/{id:[0-9]+}/transmissions", r.transmissionHistory).Methods("GET")

	// Transmission (operators and admins)
	operator := middleware.RequireRole(models.RoleAdmin, models.RoleOperator)
	api.Handle("/documents/{id:[0-9]+}/send", operator(http.HandlerFunc(r.sendDocument))).Methods("POST")
	api.Handle("/documents/{id:[0-9]+}/retry", operator(http.HandlerFunc(r.retryDocument))).Methods("POST")
	api.Handle("/transmissions/bulk", operator(http.HandlerFunc(r.sendBulk))).Methods("POST")
	api.Handle("/diagnostics/status/{ref}", operator(http.HandlerFunc(r.checkStatus))).Methods("GET")

	// Credentials and diagnostics (admins)
	admin := middleware.RequireRole(models.RoleAdmin)
	api.Handle("/credentials", admin(http.HandlerFunc(r.listCredentials))).Methods("GET")
	api.Handle("/credentials/{service}", admin(http.HandlerFunc(r.getCredential))).Methods("GET")
	api.Handle("/credentials/{service}", admin(http.HandlerFunc(r.saveCredential))).Methods("PUT")
	api.Handle("/credentials/{service}/test", admin(http.HandlerFunc(r.testCredential))).Methods("POST")
	api.Handle("/diagnostics/calls", admin(http.HandlerFunc(r.listCalls))).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
	}
	if sqlDB, err := r.DB.DB.DB(); err != nil || sqlDB.PingContext(req.Context()) != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	clients := 0
	if r.Hub != nil {
		clients = r.Hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"build":     buildinfo.Current(),
		"wsClients": clients,
	})
}

// pathID reads the numeric {id} route variable
func pathID(req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
