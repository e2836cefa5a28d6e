package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"fingnet-server/shared"
)

func (a *Api) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetFeedHandler")

	params := feedParamsFromQuery(r)
	params.ViewerId = ""

	res, err := a.Store.GetFeed(r.Context(), params)
	if err != nil {
		log.Println("Error getting feed: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (a *Api) GetEnhancedFeedHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetEnhancedFeedHandler")

	params := feedParamsFromQuery(r)
	params.ViewerId = a.viewerId(r)
	// the HTTP surface opts in so an empty personalized feed still renders
	params.FallbackToPublic = true

	res, err := a.Store.GetEnhancedFeed(r.Context(), params)
	if err != nil {
		log.Println("Error getting enhanced feed: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func feedParamsFromQuery(r *http.Request) shared.FeedParams {
	q := r.URL.Query()

	params := shared.FeedParams{
		Relationship: q.Get("relationship"),
		Platform:     q.Get("platform"),
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Limit = n
		}
	}
	if v := q.Get("feelings"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				params.Feelings = append(params.Feelings, f)
			}
		}
	}
	return params
}
