package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/campus-events-api/internal/domain"
)

var (
	ErrNotAdmin            = errors.New("user is not an admin")
	ErrNotOrganizerAccount = errors.New("account is not an organizer account")
)

type AdminUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Approve(ctx context.Context, id uint) (domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

type AdminEventRepository interface {
	Count(ctx context.Context) (int64, error)
}

type AdminRegistrationRepository interface {
	CountActive(ctx context.Context) (int64, error)
	CountAttended(ctx context.Context) (int64, error)
}

// DashboardStats is the aggregate view on the admin dashboard.
type DashboardStats struct {
	Students            int64 `json:"students"`
	Organizers          int64 `json:"organizers"`
	Events              int64 `json:"events"`
	ActiveRegistrations int64 `json:"active_registrations"`
	Attended            int64 `json:"attended"`
}

type AdminService struct {
	users  AdminUserRepository
	events AdminEventRepository
	regs   AdminRegistrationRepository
}

func NewAdminService(users AdminUserRepository, events AdminEventRepository, regs AdminRegistrationRepository) *AdminService {
	return &AdminService{
		users:  users,
		events: events,
		regs:   regs,
	}
}

// ApproveOrganizer activates a pending organizer account.
func (s *AdminService) ApproveOrganizer(ctx context.Context, admin domain.User, userID uint) (domain.User, error) {
	if !admin.Role.Allows(domain.ActionAdminister) {
		return domain.User{}, ErrNotAdmin
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if user.Role != domain.RoleOrganizer {
		return domain.User{}, ErrNotOrganizerAccount
	}

	approved, err := s.users.Approve(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Approve -> %w", err)
	}

	return approved, nil
}

func (s *AdminService) Dashboard(ctx context.Context, admin domain.User) (DashboardStats, error) {
	if !admin.Role.Allows(domain.ActionAdminister) {
		return DashboardStats{}, ErrNotAdmin
	}

	var stats DashboardStats
	var err error

	if stats.Students, err = s.users.CountByRole(ctx, domain.RoleStudent); err != nil {
		return DashboardStats{}, fmt.Errorf("s.users.CountByRole -> %w", err)
	}
	if stats.Organizers, err = s.users.CountByRole(ctx, domain.RoleOrganizer); err != nil {
		return DashboardStats{}, fmt.Errorf("s.users.CountByRole -> %w", err)
	}
	if stats.Events, err = s.events.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.events.Count -> %w", err)
	}
	if stats.ActiveRegistrations, err = s.regs.CountActive(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.regs.CountActive -> %w", err)
	}
	if stats.Attended, err = s.regs.CountAttended(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("s.regs.CountAttended -> %w", err)
	}

	return stats, nil
}
