package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"fingnet-server/shared"
)

func (a *Api) FollowUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for FollowUserHandler")

	vars := mux.Vars(r)
	followingId := vars["userId"]

	viewer := a.viewerId(r)
	if viewer == "" {
		writeApiError(w, shared.ApiErr(shared.ApiErrorTypeInvalidInput, http.StatusUnauthorized, "a viewer is required to follow"))
		return
	}

	follow, err := a.Store.FollowUser(r.Context(), viewer, followingId)
	if err != nil {
		log.Println("Error following user: ", err)
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, follow)
}

func (a *Api) UnfollowUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UnfollowUserHandler")

	vars := mux.Vars(r)
	followingId := vars["userId"]

	viewer := a.viewerId(r)
	if viewer == "" {
		writeApiError(w, shared.ApiErr(shared.ApiErrorTypeInvalidInput, http.StatusUnauthorized, "a viewer is required to unfollow"))
		return
	}

	if err := a.Store.UnfollowUser(r.Context(), viewer, followingId); err != nil {
		log.Println("Error unfollowing user: ", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) GetFollowStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetFollowStatusHandler")

	vars := mux.Vars(r)
	status, err := a.Store.GetFollowStatus(r.Context(), a.viewerId(r), vars["userId"])
	if err != nil {
		log.Println("Error getting follow status: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, status)
}

func (a *Api) BatchGetFollowStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for BatchGetFollowStatusHandler")

	var req struct {
		UserIds []string `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding request body: ", err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	statuses, err := a.Store.BatchGetFollowStatus(r.Context(), a.viewerId(r), req.UserIds)
	if err != nil {
		log.Println("Error getting follow statuses: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, statuses)
}

func (a *Api) GetFollowersHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetFollowersHandler")

	vars := mux.Vars(r)
	users, err := a.Store.GetFollowers(r.Context(), vars["userId"])
	if err != nil {
		log.Println("Error getting followers: ", err)
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*shared.User{}
	}
	writeJSON(w, users)
}

func (a *Api) GetFollowingHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetFollowingHandler")

	vars := mux.Vars(r)
	users, err := a.Store.GetFollowing(r.Context(), vars["userId"])
	if err != nil {
		log.Println("Error getting following: ", err)
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*shared.User{}
	}
	writeJSON(w, users)
}

func (a *Api) GetFollowStatsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetFollowStatsHandler")

	vars := mux.Vars(r)
	stats, err := a.Store.GetFollowStats(r.Context(), vars["userId"])
	if err != nil {
		log.Println("Error getting follow stats: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}
