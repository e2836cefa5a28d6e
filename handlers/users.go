package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"fingnet-server/shared"
)

func (a *Api) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListUsersHandler")

	users, err := a.Store.GetAllUsers(r.Context())
	if err != nil {
		log.Println("Error listing users: ", err)
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*shared.User{}
	}
	writeJSON(w, users)
}

func (a *Api) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetUserHandler")

	vars := mux.Vars(r)
	user, err := a.Store.GetUser(r.Context(), vars["userId"])
	if err != nil {
		log.Println("Error getting user: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}
