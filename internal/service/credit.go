package service

import (
	"context"
	"fmt"

	"github.com/campushub/campus-events-api/internal/domain"
)

type CreditRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.ActivityCredit, error)
	FindByUserAndCategory(ctx context.Context, userID uint, category domain.CreditCategory) ([]domain.ActivityCredit, error)
	TotalPoints(ctx context.Context, userID uint) (int, error)
}

// CreditLedger is a user's credit history plus the running total shown on
// the activity page.
type CreditLedger struct {
	Credits     []domain.ActivityCredit `json:"credits"`
	TotalPoints int                     `json:"total_points"`
}

type CreditService struct {
	repo CreditRepository
}

func NewCreditService(repo CreditRepository) *CreditService {
	return &CreditService{
		repo: repo,
	}
}

// GetLedger returns the actor's credit history, optionally narrowed to one
// category. TotalPoints always covers the full ledger.
func (s *CreditService) GetLedger(ctx context.Context, actor domain.User, category domain.CreditCategory) (CreditLedger, error) {
	var credits []domain.ActivityCredit
	var err error

	if category != "" {
		credits, err = s.repo.FindByUserAndCategory(ctx, actor.ID, category)
		if err != nil {
			return CreditLedger{}, fmt.Errorf("s.repo.FindByUserAndCategory -> %w", err)
		}
	} else {
		credits, err = s.repo.FindByUser(ctx, actor.ID)
		if err != nil {
			return CreditLedger{}, fmt.Errorf("s.repo.FindByUser -> %w", err)
		}
	}

	total, err := s.repo.TotalPoints(ctx, actor.ID)
	if err != nil {
		return CreditLedger{}, fmt.Errorf("s.repo.TotalPoints -> %w", err)
	}

	return CreditLedger{Credits: credits, TotalPoints: total}, nil
}
