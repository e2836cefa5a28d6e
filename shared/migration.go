package shared

import "time"

type MigrationState string

const (
	MigrationNotRequired MigrationState = "not-required"
	MigrationRequired    MigrationState = "required"
	MigrationInProgress  MigrationState = "in-progress"
	MigrationCompleted   MigrationState = "completed"
	MigrationFailed      MigrationState = "failed"
)

// MigrationStatus is the singleton status document persisted under a
// well-known key. It is read at startup so a completed migration is never
// re-run, and rewritten after every phase transition.
type MigrationStatus struct {
	State       MigrationState `json:"state"`
	Progress    int            `json:"progress"`
	Total       int            `json:"total"`
	CurrentTask string         `json:"currentTask,omitempty"`

	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Images   int `json:"images"`
	Comments int `json:"comments"`
	Follows  int `json:"follows"`

	BytesBefore int64    `json:"bytesBefore"`
	ElapsedMs   int64    `json:"elapsedMs"`
	Errors      []string `json:"errors,omitempty"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// MigrationProgress is reported to the onProgress callback during a run.
type MigrationProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Task    string `json:"task"`
}
