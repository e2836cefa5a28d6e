package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fingnet-server/shared"
)

func (a *Api) GetStorageStatsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetStorageStatsHandler")

	stats, err := a.Store.GetStats(r.Context())
	if err != nil {
		log.Println("Error getting storage stats: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (a *Api) GetStorageQuotaHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetStorageQuotaHandler")

	quota, err := a.Store.GetStorageQuota(r.Context())
	if err != nil {
		log.Println("Error getting storage quota: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, quota)
}

func (a *Api) CleanupHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CleanupHandler")

	var opts shared.CleanupOptions
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			log.Println("Error decoding request body: ", err)
			http.Error(w, "Error decoding request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	res, err := a.Store.Cleanup(r.Context(), opts)
	if err != nil {
		log.Println("Error running cleanup: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func (a *Api) ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ClearAllHandler")

	if err := a.Store.ClearAll(r.Context()); err != nil {
		log.Println("Error clearing storage: ", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
