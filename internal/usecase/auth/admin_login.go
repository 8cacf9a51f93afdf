package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAdmin      = errors.New("admin inactive")
)

type AdminFinder interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLoginAt  *time.Time
}

type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}

// AdminLoginUsecase issues the HS256 token that guards promo and catalog
// management.
type AdminLoginUsecase struct {
	finder    AdminFinder
	jwtSecret []byte
	expMin    int
	now       func() time.Time
}

func NewAdminLoginUsecase(finder AdminFinder, jwtSecret string, expiresMinutes int) *AdminLoginUsecase {
	if expiresMinutes <= 0 {
		expiresMinutes = 60
	}
	return &AdminLoginUsecase{
		finder:    finder,
		jwtSecret: []byte(jwtSecret),
		expMin:    expiresMinutes,
		now:       time.Now,
	}
}

func (u *AdminLoginUsecase) Execute(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := u.finder.FindByEmail(ctx, email)
	if err != nil {
		// Hide whether email exists
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrInactiveAdmin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := u.now()
	// best effort; a failed audit write never blocks a valid login
	_ = u.finder.RecordLogin(ctx, admin.ID, now)

	exp := now.Add(time.Duration(u.expMin) * time.Minute)

	claims := jwt.MapClaims{
		"sub":   admin.ID,
		"typ":   "admin",
		"email": admin.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   u.expMin * 60,
	}, nil
}
