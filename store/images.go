package store

import (
	"context"
	"fmt"

	"fingnet-server/shared"
)

// GetImageData loads a stored binary record. Reads refresh the record's
// last-accessed time so eviction targets cold images first.
func (s *Storage) GetImageData(ctx context.Context, id string) (*shared.ImageRecord, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	rec, err := s.backend.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, shared.NotFoundErr(fmt.Sprintf("image not found: %v", id))
	}
	return rec, nil
}
