// Package handlers exposes the storage façade over HTTP. Every handler logs
// receipt, resolves the viewer where one is implied, and maps storage error
// kinds to HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"fingnet-server/shared"
	"fingnet-server/store"
)

type Api struct {
	Store *store.Storage
}

func NewApi(storage *store.Storage) *Api {
	return &Api{Store: storage}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Println("Error marshalling response: ", err)
		http.Error(w, "Error marshalling response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeApiError(w http.ResponseWriter, apiErr *shared.ApiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	bytes, err := json.Marshal(apiErr)
	if err != nil {
		log.Println("Error marshalling api error: ", err)
		return
	}
	w.Write(bytes)
}

// writeError maps storage errors onto the wire. Typed errors keep their
// status; everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *shared.ApiError
	if errors.As(err, &apiErr) {
		writeApiError(w, apiErr)
		return
	}
	writeApiError(w, &shared.ApiError{
		Type:   shared.ApiErrorTypeOther,
		Status: http.StatusInternalServerError,
		Msg:    err.Error(),
	})
}

// viewerId resolves the viewer from a bearer token when one is present,
// falling back to the viewerId query param. Anonymous requests return "".
func (a *Api) viewerId(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		user, err := a.Store.ValidateToken(r.Context(), token)
		if err == nil && user != nil {
			return user.Id
		}
		log.Printf("Error validating token: %v\n", err)
	}
	return r.URL.Query().Get("viewerId")
}
