package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"fingnet-server/shared"
)

func (a *Api) GetPostCommentsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetPostCommentsHandler")

	vars := mux.Vars(r)
	postId := vars["postId"]

	comments, err := a.Store.GetPostComments(r.Context(), postId)
	if err != nil {
		log.Println("Error getting comments: ", err)
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []*shared.Comment{}
	}
	writeJSON(w, comments)
}

func (a *Api) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreateCommentHandler")

	vars := mux.Vars(r)

	var req shared.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding request body: ", err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.PostId = vars["postId"]
	if viewer := a.viewerId(r); viewer != "" {
		req.AuthorId = viewer
	}

	comment, err := a.Store.CreateComment(r.Context(), req)
	if err != nil {
		log.Println("Error creating comment: ", err)
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, comment)
}

func (a *Api) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdateCommentHandler")

	vars := mux.Vars(r)
	commentId := vars["commentId"]

	var req shared.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding request body: ", err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := a.Store.UpdateComment(r.Context(), commentId, a.viewerId(r), req.Body)
	if err != nil {
		log.Println("Error updating comment: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, comment)
}

func (a *Api) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for DeleteCommentHandler")

	vars := mux.Vars(r)
	commentId := vars["commentId"]

	if err := a.Store.DeleteComment(r.Context(), commentId, a.viewerId(r)); err != nil {
		log.Println("Error deleting comment: ", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for LikeCommentHandler")

	vars := mux.Vars(r)
	commentId := vars["commentId"]

	viewer := a.viewerId(r)
	if viewer == "" {
		writeApiError(w, shared.ApiErr(shared.ApiErrorTypeInvalidInput, http.StatusUnauthorized, "a viewer is required to like a comment"))
		return
	}

	comment, err := a.Store.LikeComment(r.Context(), commentId, viewer)
	if err != nil {
		log.Println("Error liking comment: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, comment)
}
