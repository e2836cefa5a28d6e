package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// GetImageHandler streams a stored binary. The managed reference scheme
// resolves to this route.
func (a *Api) GetImageHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetImageHandler")

	vars := mux.Vars(r)
	rec, err := a.Store.GetImageData(r.Context(), vars["imageId"])
	if err != nil {
		log.Println("Error getting image: ", err)
		writeError(w, err)
		return
	}

	mimeType := rec.Meta.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(rec.Data)
}
