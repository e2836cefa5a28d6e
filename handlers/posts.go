package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"fingnet-server/shared"
)

func (a *Api) GetUserPostsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetUserPostsHandler")

	vars := mux.Vars(r)
	userId := vars["userId"]

	posts, err := a.Store.GetUserPosts(r.Context(), userId, a.viewerId(r))
	if err != nil {
		log.Println("Error getting user posts: ", err)
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []*shared.Post{}
	}
	writeJSON(w, posts)
}

func (a *Api) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetPostHandler")

	vars := mux.Vars(r)
	postId := vars["postId"]

	post, err := a.Store.GetPostByID(r.Context(), postId)
	if err != nil {
		log.Println("Error getting post: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, post)
}

func (a *Api) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreatePostHandler")

	var req shared.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("Error decoding request body: ", err)
		http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if viewer := a.viewerId(r); viewer != "" {
		req.AuthorId = viewer
	}

	post, err := a.Store.CreatePost(r.Context(), req)
	if err != nil {
		log.Println("Error creating post: ", err)
		writeError(w, err)
		return
	}

	log.Println("Successfully processed request for CreatePostHandler")
	writeJSONStatus(w, http.StatusCreated, post)
}
