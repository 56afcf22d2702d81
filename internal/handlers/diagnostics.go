package handlers

import (
	"net/http"
	"strconv"

	"github.com/anhardeni/tps40-merak-sub001/internal/middleware"
	"github.com/anhardeni/tps40-merak-sub001/internal/refnumber"
	"github.com/gorilla/mux"
)

func (r *Router) listCalls(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	calls, err := r.Diagnostics.Recent(req.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, calls)
}

// checkStatus asks the authority what became of a submitted document
func (r *Router) checkStatus(w http.ResponseWriter, req *http.Request) {
	ref := mux.Vars(req)["ref"]
	if _, err := refnumber.Parse(ref); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := r.Diagnostics.CheckStatus(req.Context(), ref, middleware.Actor(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
