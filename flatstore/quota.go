package flatstore

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"fingnet-server/shared"
)

// PlaceholderImageURL stands in for payloads too large to persist inline.
const PlaceholderImageURL = "https://placehold.co/600x400?text=image+unavailable"

const (
	preferOriginalMax = 150 << 10 // keep the original below this encoded size
	compressedMax     = 100 << 10 // otherwise the compressed variant below this
	absoluteCeiling   = 250 << 10 // otherwise a larger original up to this
)

const (
	shrinkKeepPosts    = 20
	shrinkKeepComments = 50
)

// SaveImageConstrained applies the quota-pressure policy the flat store
// needs because it keeps payloads inline: prefer the original under 150KB
// encoded, else the compressed variant under 100KB, else the original up to
// an absolute 250KB ceiling, else substitute a remote placeholder. Returns
// the reference the post should carry.
func (s *Store) SaveImageConstrained(ctx context.Context, rec *shared.ImageRecord, original, compressed []byte) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var chosen []byte
	switch {
	case encodedLen(original) <= preferOriginalMax:
		chosen = original
	case compressed != nil && encodedLen(compressed) <= compressedMax:
		chosen = compressed
	case encodedLen(original) <= absoluteCeiling:
		chosen = original
	default:
		log.Printf("image %s too large for flat store (%d bytes encoded), substituting placeholder", rec.Id, encodedLen(original))
		return PlaceholderImageURL, nil
	}

	rec.Data = chosen
	rec.Meta.ByteSize = int64(len(chosen))

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.saveImageLocked(rec)
	if err == nil {
		return shared.ImageRef(rec.Id), nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		return "", err
	}

	// Quota exhausted: shrink to the most recent few posts and comments and
	// retry once.
	log.Printf("flat store quota exhausted, shrinking to %d posts / %d comments", shrinkKeepPosts, shrinkKeepComments)
	if err := s.shrinkLocked(shrinkKeepPosts, shrinkKeepComments); err != nil {
		return "", err
	}

	err = s.saveImageLocked(rec)
	if err == nil {
		return shared.ImageRef(rec.Id), nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		return "", err
	}

	// Last resort: clear the entire fallback store.
	log.Println("flat store still over quota after shrinking, clearing all data")
	if err := s.clearLocked(); err != nil {
		return "", err
	}

	if err := s.saveImageLocked(rec); err != nil {
		return "", err
	}
	return shared.ImageRef(rec.Id), nil
}

func encodedLen(data []byte) int {
	return base64.StdEncoding.EncodedLen(len(data))
}

func (s *Store) shrinkLocked(keepPosts, keepComments int) error {
	posts, err := s.allPostsLocked()
	if err != nil {
		return err
	}

	kept := map[string]*shared.Post{}
	keptIds := map[string]bool{}
	for i, p := range posts {
		if i >= keepPosts {
			break
		}
		kept[p.Id] = p
		keptIds[p.Id] = true
	}
	if err := s.writeDoc(postsFile, kept); err != nil {
		return err
	}

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return err
	}
	for id, img := range images {
		if img.PostId != "" && !keptIds[img.PostId] {
			delete(images, id)
		}
	}
	if err := s.writeDoc(imagesFile, images); err != nil {
		return err
	}

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return err
	}

	recent := make([]*shared.Comment, 0, len(comments))
	for _, c := range comments {
		if keptIds[c.PostId] {
			recent = append(recent, c)
		}
	}
	sortCommentsNewestFirst(recent)
	if len(recent) > keepComments {
		recent = recent[:keepComments]
	}

	keptComments := map[string]*shared.Comment{}
	for _, c := range recent {
		keptComments[c.Id] = c
	}
	return s.writeDoc(commentsFile, keptComments)
}

func sortCommentsNewestFirst(comments []*shared.Comment) {
	for i := 1; i < len(comments); i++ {
		for j := i; j > 0 && comments[j].CreatedAt.After(comments[j-1].CreatedAt); j-- {
			comments[j], comments[j-1] = comments[j-1], comments[j]
		}
	}
}

func (s *Store) clearLocked() error {
	for _, f := range []string{usersFile, postsFile, commentsFile, followsFile, imagesFile} {
		if err := removeIfExists(s.path(f)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetStorageQuota(ctx context.Context) (*shared.StorageQuota, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	used := s.TotalBytes()
	available := s.budget - used
	if available < 0 {
		available = 0
	}
	return &shared.StorageQuota{
		Used:      used,
		Available: available,
		Total:     s.budget,
		Percent:   float64(used) / float64(s.budget) * 100,
	}, nil
}

// CleanupOldData mirrors the engine's eviction: images unused for longer
// than MaxImageAge go first, then posts beyond MaxPosts (newest kept),
// cascading their owned images.
func (s *Store) CleanupOldData(ctx context.Context, opts shared.CleanupOptions) (*shared.CleanupResult, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &shared.CleanupResult{}
	cutoff := time.Now().UTC().Add(-opts.MaxImageAge)

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return nil, err
	}
	for id, img := range images {
		if img.LastAccessed.Before(cutoff) {
			result.DeletedImages++
			result.FreedBytes += img.Meta.ByteSize
			delete(images, id)
		}
	}

	posts, err := s.allPostsLocked()
	if err != nil {
		return nil, err
	}

	if len(posts) > opts.MaxPosts {
		kept := map[string]*shared.Post{}
		trimmed := map[string]bool{}
		for i, p := range posts {
			if i < opts.MaxPosts {
				kept[p.Id] = p
				continue
			}
			result.DeletedPosts++
			trimmed[p.Id] = true
			for _, pi := range p.Images {
				for _, ref := range []string{pi.Reference, pi.ThumbnailReference} {
					if recId, ok := shared.ParseImageRef(ref); ok {
						if img, exists := images[recId]; exists {
							result.DeletedImages++
							result.FreedBytes += img.Meta.ByteSize
							delete(images, recId)
						}
					}
				}
			}
		}
		if err := s.writeDoc(postsFile, kept); err != nil {
			return nil, err
		}

		// comments of trimmed posts go with them, like the engine's FK cascade
		comments := map[string]*shared.Comment{}
		if err := s.readDoc(commentsFile, &comments); err != nil {
			return nil, err
		}
		changed := false
		for id, c := range comments {
			if trimmed[c.PostId] {
				delete(comments, id)
				changed = true
			}
		}
		if changed {
			if err := s.writeDoc(commentsFile, comments); err != nil {
				return nil, err
			}
		}
	}

	if err := s.writeDoc(imagesFile, images); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetStats(ctx context.Context) (*shared.StorageStats, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &shared.StorageStats{Backend: s.Name()}

	users := map[string]*shared.User{}
	if err := s.readDoc(usersFile, &users); err != nil {
		return nil, err
	}
	stats.Users = len(users)

	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return nil, err
	}
	stats.Posts = len(posts)

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return nil, err
	}
	stats.Comments = len(comments)

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return nil, err
	}
	stats.Follows = len(follows)

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return nil, err
	}
	stats.Images = len(images)

	used := s.TotalBytes()
	available := s.budget - used
	if available < 0 {
		available = 0
	}
	stats.Quota = shared.StorageQuota{
		Used:      used,
		Available: available,
		Total:     s.budget,
		Percent:   float64(used) / float64(s.budget) * 100,
	}

	return stats, nil
}
