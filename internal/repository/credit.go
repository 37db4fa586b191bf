package repository

import (
	"context"
	"fmt"

	"github.com/campushub/campus-events-api/internal/domain"
	"github.com/campushub/campus-events-api/internal/repository/dao"
)

type CreditDAO interface {
	FindByUser(ctx context.Context, userID uint) ([]dao.ActivityCredit, error)
	SumPointsByUser(ctx context.Context, userID uint) (int, error)
	FindByUserAndCategory(ctx context.Context, userID uint, category string) ([]dao.ActivityCredit, error)
}

type CreditRepository struct {
	dao CreditDAO
}

func NewCreditRepository(dao CreditDAO) *CreditRepository {
	return &CreditRepository{
		dao: dao,
	}
}

func (r *CreditRepository) FindByUser(ctx context.Context, userID uint) ([]domain.ActivityCredit, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	return creditDaosToDomain(found), nil
}

func (r *CreditRepository) TotalPoints(ctx context.Context, userID uint) (int, error) {
	total, err := r.dao.SumPointsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumPointsByUser -> %w", err)
	}

	return total, nil
}

func (r *CreditRepository) FindByUserAndCategory(ctx context.Context, userID uint, category domain.CreditCategory) ([]domain.ActivityCredit, error) {
	found, err := r.dao.FindByUserAndCategory(ctx, userID, string(category))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserAndCategory -> %w", err)
	}

	return creditDaosToDomain(found), nil
}

func creditDomainToDao(c domain.ActivityCredit) dao.ActivityCredit {
	return dao.ActivityCredit{
		UserID:   c.UserID,
		Category: string(c.Category),
		Points:   c.Points,
		Reason:   c.Reason,
	}
}

func creditDaoToDomain(c dao.ActivityCredit) domain.ActivityCredit {
	return domain.ActivityCredit{
		ID:        c.ID,
		UserID:    c.UserID,
		Category:  domain.CreditCategory(c.Category),
		Points:    c.Points,
		Reason:    c.Reason,
		CreatedAt: c.CreatedAt,
	}
}

func creditDaosToDomain(credits []dao.ActivityCredit) []domain.ActivityCredit {
	result := make([]domain.ActivityCredit, len(credits))
	for i, c := range credits {
		result[i] = creditDaoToDomain(c)
	}
	return result
}
