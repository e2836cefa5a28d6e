package handlers

import (
	"log"
	"net/http"

	"fingnet-server/shared"
)

func (a *Api) GetMigrationStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetMigrationStatusHandler")

	status, err := a.Store.GetMigrationStatus(r.Context())
	if err != nil {
		log.Println("Error getting migration status: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, status)
}

func (a *Api) MigrateHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for MigrateHandler")

	ran, err := a.Store.Migrate(r.Context(), func(p shared.MigrationProgress) {
		log.Printf("migration progress: %d/%d (%s)", p.Current, p.Total, p.Task)
	})
	if err != nil {
		log.Println("Error running migration: ", err)
		writeError(w, err)
		return
	}

	status, err := a.Store.GetMigrationStatus(r.Context())
	if err != nil {
		log.Println("Error getting migration status: ", err)
		writeError(w, err)
		return
	}
	writeJSON(w, struct {
		Ran    bool                    `json:"ran"`
		Status *shared.MigrationStatus `json:"status"`
	}{Ran: ran, Status: status})
}
