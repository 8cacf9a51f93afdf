package postgres

import (
	"context"
	"time"

	authuc "github.com/riolentius/hideki-store-backend/internal/usecase/auth"
)

type AdminFinderAdapter struct {
	repo *AdminRepo
}

var _ authuc.AdminFinder = (*AdminFinderAdapter)(nil)

func NewAdminFinderAdapter(repo *AdminRepo) *AdminFinderAdapter {
	return &AdminFinderAdapter{repo: repo}
}

func (a *AdminFinderAdapter) FindByEmail(ctx context.Context, email string) (*authuc.Admin, error) {
	r, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &authuc.Admin{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		LastLoginAt:  r.LastLoginAt,
	}, nil
}

func (a *AdminFinderAdapter) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return a.repo.TouchLogin(ctx, id, at)
}
