package auth

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/chnm/relcensus-backend/internal/auditlog"
)

type Service interface {
	Login(email, password, ip string) (*TokenPair, *User, error)
	Refresh(refreshToken string) (*TokenPair, error)
	Register(fullName, email, password, roleName string) (*User, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type service struct {
	repo   Repository
	audit  auditlog.Service
	secret []byte
}

func NewService(repo Repository, audit auditlog.Service, jwtSecret string) Service {
	return &service{repo: repo, audit: audit, secret: []byte(jwtSecret)}
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user account is inactive")
)

// Login validates credentials and issues a token pair.
func (s *service) Login(email, password, ip string) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status != "active" {
		return nil, nil, ErrInactiveUser
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(&user.ID, user.Email, auditlog.ActionLogin, nil, "", ip, map[string]interface{}{
		"role": user.Role.RoleName,
	})

	log.Printf("✅ User logged in: %s (%s)", user.Email, user.Role.RoleName)
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *service) Refresh(refreshToken string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "refresh" {
		return nil, errors.New("invalid refresh token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid refresh token")
	}

	user, err := s.repo.FindByID(uint(userID))
	if err != nil {
		return nil, errors.New("user not found")
	}

	return s.generateTokenPair(&user)
}

// Register creates a user in the given role. Only the transcriber and reviewer
// roles are open for registration; superadmin is seeded.
func (s *service) Register(fullName, email, password, roleName string) (*User, error) {
	if roleName == RoleSuperAdmin {
		return nil, errors.New("cannot register as superadmin")
	}

	role, err := s.repo.FindRoleByName(roleName)
	if err != nil {
		return nil, errors.New("unknown role: " + roleName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       "active",
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) generateTokenPair(user *User) (*TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"role_id":    user.RoleID,
		"role_name":  user.Role.RoleName,
		"token_type": "access",
		"exp":        now.Add(24 * time.Hour).Unix(),
		"iat":        now.Unix(),
	})
	accessStr, err := access.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"token_type": "refresh",
		"exp":        now.Add(7 * 24 * time.Hour).Unix(),
		"iat":        now.Unix(),
	})
	refreshStr, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessStr, RefreshToken: refreshStr}, nil
}
