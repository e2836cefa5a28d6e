package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"fingnet-server/shared"
)

type sessionResponse struct {
	User  *shared.User `json:"user"`
	Token string       `json:"token"`
}

func (a *Api) SignInHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for SignInHandler")

	var req struct {
		Handle string `json:"handle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding request body: ", err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := a.Store.Login(r.Context(), req.Handle)
	if err != nil {
		log.Println("Error signing in: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, sessionResponse{User: user, Token: token})
}

func (a *Api) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetSessionHandler")

	token := bearerToken(r)
	if token == "" {
		writeApiError(w, shared.ApiErr(shared.ApiErrorTypeInvalidInput, http.StatusUnauthorized, "missing bearer token"))
		return
	}

	user, err := a.Store.ValidateToken(r.Context(), token)
	if err != nil {
		log.Println("Error validating session: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (a *Api) RefreshSessionHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for RefreshSessionHandler")

	token := bearerToken(r)
	if token == "" {
		writeApiError(w, shared.ApiErr(shared.ApiErrorTypeInvalidInput, http.StatusUnauthorized, "missing bearer token"))
		return
	}

	refreshed, err := a.Store.RefreshToken(r.Context(), token)
	if err != nil {
		log.Println("Error refreshing session: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, struct {
		Token string `json:"token"`
	}{Token: refreshed})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
