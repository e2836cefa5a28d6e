// Package routes wires the HTTP surface: the API routes for every storage
// operation group, health, and prometheus metrics.
package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fingnet-server/handlers"
)

func AddRoutes(r *mux.Router, api *handlers.Api) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	addApiRoutes(r, api)
}

func addApiRoutes(r *mux.Router, api *handlers.Api) {
	handle := func(path string, handler http.HandlerFunc) *mux.Route {
		return r.Handle(path, instrument(path, handler))
	}

	handle("/sessions/sign_in", api.SignInHandler).Methods("POST")
	handle("/sessions", api.GetSessionHandler).Methods("GET")
	handle("/sessions/refresh", api.RefreshSessionHandler).Methods("POST")

	handle("/feed", api.GetFeedHandler).Methods("GET")
	handle("/feed/enhanced", api.GetEnhancedFeedHandler).Methods("GET")

	handle("/users", api.ListUsersHandler).Methods("GET")
	handle("/users/{userId}", api.GetUserHandler).Methods("GET")
	handle("/users/{userId}/posts", api.GetUserPostsHandler).Methods("GET")
	handle("/users/{userId}/follow", api.FollowUserHandler).Methods("POST")
	handle("/users/{userId}/follow", api.UnfollowUserHandler).Methods("DELETE")
	handle("/users/{userId}/follow_status", api.GetFollowStatusHandler).Methods("GET")
	handle("/users/{userId}/followers", api.GetFollowersHandler).Methods("GET")
	handle("/users/{userId}/following", api.GetFollowingHandler).Methods("GET")
	handle("/users/{userId}/follow_stats", api.GetFollowStatsHandler).Methods("GET")
	handle("/follow_status/batch", api.BatchGetFollowStatusHandler).Methods("POST")

	handle("/posts", api.CreatePostHandler).Methods("POST")
	handle("/posts/{postId}", api.GetPostHandler).Methods("GET")
	handle("/posts/{postId}/comments", api.GetPostCommentsHandler).Methods("GET")
	handle("/posts/{postId}/comments", api.CreateCommentHandler).Methods("POST")

	handle("/comments/{commentId}", api.UpdateCommentHandler).Methods("PUT")
	handle("/comments/{commentId}", api.DeleteCommentHandler).Methods("DELETE")
	handle("/comments/{commentId}/like", api.LikeCommentHandler).Methods("PATCH")

	handle("/images/{imageId}", api.GetImageHandler).Methods("GET")

	handle("/storage/stats", api.GetStorageStatsHandler).Methods("GET")
	handle("/storage/quota", api.GetStorageQuotaHandler).Methods("GET")
	handle("/storage/cleanup", api.CleanupHandler).Methods("POST")
	handle("/storage/clear", api.ClearAllHandler).Methods("POST")

	handle("/migration/status", api.GetMigrationStatusHandler).Methods("GET")
	handle("/migration/run", api.MigrateHandler).Methods("POST")
}
