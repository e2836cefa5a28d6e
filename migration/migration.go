// Package migration moves data from the legacy flat representation into the
// richer storage engine: detect, migrate, verify, then clean up the legacy
// data after a grace delay.
package migration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"fingnet-server/shared"
)

// DefaultGraceDelay bounds the window in which a crash could lose data that
// exists in both places, while still eventually freeing the legacy space.
const DefaultGraceDelay = 5 * time.Second

// Legacy is the flat key-value representation being migrated away from.
type Legacy interface {
	LegacyPresent() bool
	TotalBytes() int64
	Destroy() error

	GetAllUsers(ctx context.Context) ([]*shared.User, error)
	GetAllPosts(ctx context.Context) ([]*shared.Post, error)
	GetAllComments(ctx context.Context) ([]*shared.Comment, error)
	GetAllFollows(ctx context.Context) ([]*shared.Follow, error)
}

// Destination is the subset of the storage engine migration writes through.
// All writes are idempotent upserts keyed by original id, so a retried run
// never duplicates records.
type Destination interface {
	SaveUser(ctx context.Context, user *shared.User) error
	SavePost(ctx context.Context, post *shared.Post) error
	SaveComment(ctx context.Context, comment *shared.Comment) error
	SaveFollow(ctx context.Context, follow *shared.Follow) error
	SaveImage(ctx context.Context, rec *shared.ImageRecord) error

	GetMigrationStatus(ctx context.Context) (*shared.MigrationStatus, error)
	PutMigrationStatus(ctx context.Context, status *shared.MigrationStatus) error
}

type OnProgress func(shared.MigrationProgress)

type Manager struct {
	legacy     Legacy
	dest       Destination
	graceDelay time.Duration

	mu      sync.Mutex
	running bool
}

func NewManager(legacy Legacy, dest Destination) *Manager {
	return &Manager{
		legacy:     legacy,
		dest:       dest,
		graceDelay: DefaultGraceDelay,
	}
}

// SetGraceDelay overrides the legacy-deletion delay. Used by tests.
func (m *Manager) SetGraceDelay(d time.Duration) {
	m.graceDelay = d
}

// CheckRequired decides whether a migration needs to run: not if a persisted
// completed status exists, otherwise yes if any legacy data is present.
func (m *Manager) CheckRequired(ctx context.Context) (shared.MigrationState, error) {
	status, err := m.dest.GetMigrationStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("error reading migration status: %v", err)
	}
	if status != nil && status.State == shared.MigrationCompleted {
		return shared.MigrationNotRequired, nil
	}
	if m.legacy.LegacyPresent() {
		return shared.MigrationRequired, nil
	}
	return shared.MigrationNotRequired, nil
}

// Status returns the persisted status document, or a synthesized one when
// nothing has been persisted yet.
func (m *Manager) Status(ctx context.Context) (*shared.MigrationStatus, error) {
	status, err := m.dest.GetMigrationStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return status, nil
	}

	state, err := m.CheckRequired(ctx)
	if err != nil {
		return nil, err
	}
	return &shared.MigrationStatus{State: state}, nil
}

// Perform runs the migration. Returns false if no migration was required or
// one is already in progress. Item-level decode failures are collected and
// skipped; a storage write failure marks the run failed (and retryable) with
// legacy data untouched.
func (m *Manager) Perform(ctx context.Context, onProgress OnProgress) (bool, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		log.Println("migration already in progress")
		return false, nil
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	state, err := m.CheckRequired(ctx)
	if err != nil {
		return false, err
	}
	if state != shared.MigrationRequired {
		return false, nil
	}

	start := time.Now()
	startedAt := start.UTC()
	status := &shared.MigrationStatus{
		State:       shared.MigrationInProgress,
		BytesBefore: m.legacy.TotalBytes(),
		StartedAt:   &startedAt,
	}
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		return false, err
	}

	users, err := m.legacy.GetAllUsers(ctx)
	if err != nil {
		return false, m.fail(ctx, status, fmt.Errorf("error reading legacy users: %v", err))
	}
	posts, err := m.legacy.GetAllPosts(ctx)
	if err != nil {
		return false, m.fail(ctx, status, fmt.Errorf("error reading legacy posts: %v", err))
	}
	comments, err := m.legacy.GetAllComments(ctx)
	if err != nil {
		return false, m.fail(ctx, status, fmt.Errorf("error reading legacy comments: %v", err))
	}
	follows, err := m.legacy.GetAllFollows(ctx)
	if err != nil {
		return false, m.fail(ctx, status, fmt.Errorf("error reading legacy follows: %v", err))
	}

	status.Total = len(users) + len(posts) + len(comments) + len(follows)

	report := func(task string) {
		status.CurrentTask = task
		if onProgress != nil {
			onProgress(shared.MigrationProgress{
				Current: status.Progress,
				Total:   status.Total,
				Task:    task,
			})
		}
	}

	report("Migrating users")
	for _, user := range users {
		if err := m.dest.SaveUser(ctx, user); err != nil {
			return false, m.fail(ctx, status, fmt.Errorf("error migrating user %s: %v", user.Id, err))
		}
		status.Users++
		status.Progress++
		report("Migrating users")
	}
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		return false, err
	}

	report("Migrating posts")
	for _, post := range posts {
		if err := m.migratePost(ctx, post, status); err != nil {
			return false, m.fail(ctx, status, err)
		}
		status.Posts++
		status.Progress++
		report("Migrating posts")
	}
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		return false, err
	}

	report("Migrating comments")
	for _, comment := range comments {
		if err := m.dest.SaveComment(ctx, comment); err != nil {
			return false, m.fail(ctx, status, fmt.Errorf("error migrating comment %s: %v", comment.Id, err))
		}
		status.Comments++
		status.Progress++
		report("Migrating comments")
	}
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		return false, err
	}

	report("Migrating follows")
	for _, follow := range follows {
		if err := m.dest.SaveFollow(ctx, follow); err != nil {
			return false, m.fail(ctx, status, fmt.Errorf("error migrating follow %s: %v", follow.Id, err))
		}
		status.Follows++
		status.Progress++
		report("Migrating follows")
	}

	completedAt := time.Now().UTC()
	status.State = shared.MigrationCompleted
	status.CurrentTask = ""
	status.ElapsedMs = time.Since(start).Milliseconds()
	status.CompletedAt = &completedAt
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		return false, err
	}

	log.Printf("migration completed in %dms:\n%s", status.ElapsedMs, spew.Sdump(status))

	m.scheduleLegacyCleanup()
	return true, nil
}

// migratePost converts every inline image payload into a managed binary
// record before writing the post. Decode failures are item-level: the image
// keeps a placeholder-free empty reference and migration continues.
func (m *Manager) migratePost(ctx context.Context, post *shared.Post, status *shared.MigrationStatus) error {
	for i := range post.Images {
		img := &post.Images[i]

		if shared.IsInlineImage(img.Reference) {
			ref, err := m.convertInlineImage(ctx, post.Id, img.Id, img, img.Reference)
			if err != nil {
				status.Errors = append(status.Errors,
					fmt.Sprintf("post %s image %s: %v", post.Id, img.Id, err))
				log.Printf("error converting inline image %s on post %s: %v", img.Id, post.Id, err)
				img.Reference = ""
				img.ThumbnailReference = ""
				continue
			}
			img.Reference = ref
			status.Images++
		}

		if shared.IsInlineImage(img.ThumbnailReference) {
			ref, err := m.convertInlineImage(ctx, post.Id, img.Id+"-thumb", img, img.ThumbnailReference)
			if err != nil {
				// fall back to the primary reference rather than losing the image
				log.Printf("error converting thumbnail for image %s on post %s, falling back to primary: %v", img.Id, post.Id, err)
				img.ThumbnailReference = img.Reference
				continue
			}
			img.ThumbnailReference = ref
			status.Images++
		}
	}

	if err := m.dest.SavePost(ctx, post); err != nil {
		return fmt.Errorf("error migrating post %s: %v", post.Id, err)
	}
	return nil
}

func (m *Manager) convertInlineImage(ctx context.Context, postId, recordId string, img *shared.PostImage, inline string) (string, error) {
	data, mimeType, err := shared.DecodeInlineImage(inline)
	if err != nil {
		return "", err
	}

	rec := &shared.ImageRecord{
		Id:     recordId,
		PostId: postId,
		Data:   data,
		Meta: shared.ImageMeta{
			ByteSize:       int64(len(data)),
			MimeType:       mimeType,
			Width:          img.Width,
			Height:         img.Height,
			DisplayPercent: img.DisplayPercent,
			Order:          img.Order,
		},
	}
	if err := m.dest.SaveImage(ctx, rec); err != nil {
		return "", err
	}
	return shared.ImageRef(recordId), nil
}

func (m *Manager) fail(ctx context.Context, status *shared.MigrationStatus, cause error) error {
	status.State = shared.MigrationFailed
	status.Errors = append(status.Errors, cause.Error())
	if err := m.dest.PutMigrationStatus(ctx, status); err != nil {
		log.Printf("error persisting failed migration status: %v", err)
	}
	return cause
}

// scheduleLegacyCleanup deletes the legacy representation after the grace
// delay rather than immediately.
func (m *Manager) scheduleLegacyCleanup() {
	log.Printf("scheduling legacy data deletion in %s", m.graceDelay)
	time.AfterFunc(m.graceDelay, func() {
		if err := m.legacy.Destroy(); err != nil {
			log.Printf("error deleting legacy data: %v", err)
			return
		}
		log.Println("legacy data deleted")
	})
}
