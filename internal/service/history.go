package service

import (
	"context"
	"strings"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/history"
)

// Result returns a stored calculation of scope.
func (s *Service) Result(ctx context.Context, scope, id string) (history.Record, error) {
	id = strings.TrimSpace(id)
	rec, err := s.history.Get(ctx, scope, id)
	if err != nil {
		return history.Record{}, history.NotFound(err, id)
	}
	return rec, nil
}

// Results lists the newest calculations of scope.
func (s *Service) Results(ctx context.Context, scope string, limit int) ([]history.Record, error) {
	return s.history.List(ctx, scope, limit)
}
