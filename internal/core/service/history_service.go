package service

import (
	"context"
	"fmt"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

type HistoryService struct {
	repo ports.HistoryRepository
}

var _ ports.HistoryService = (*HistoryService)(nil)

func NewHistoryService(repo ports.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns the audit rows of one target, newest first.
func (s *HistoryService) List(ctx context.Context, targetType domain.TargetType, targetID uint) ([]domain.History, error) {
	rows, err := s.repo.List(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if rows == nil {
		rows = []domain.History{}
	}
	return rows, nil
}
