package service

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/crypto/bcrypt"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/core/user/model"
	"samaajseva/pkg/core/user/repository/dao"
)

// PublicUser is what auth operations hand back; it never carries the hash.
type PublicUser struct {
	ID    uint64     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

func toPublic(u model.User) PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService struct {
	users dao.UserRepository
	cost  int
	// dummyHash is compared against when the email is unknown, so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(users dao.UserRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("samaajseva-dummy-password"), bcryptCost)
	if err != nil {
		hlog.Warnf("dummy hash generation failed: %v", err)
	}
	return &AuthService{users: users, cost: bcryptCost, dummyHash: dummy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Email uniqueness is decided by the unique
// index at insert time.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (PublicUser, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(in.Role) == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return PublicUser{}, apperrors.MissingFields(missing...)
	}

	role, ok := model.ParseRole(in.Role)
	if !ok {
		return PublicUser{}, apperrors.Validation("Role must be one of Donor, NGO, Volunteer.")
	}

	// 密码加密
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return PublicUser{}, apperrors.Internal(err)
	}

	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return PublicUser{}, err
	}

	hlog.CtxInfof(ctx, "user registered id=%d role=%s", user.ID, user.Role)
	return toPublic(user), nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (PublicUser, error) {
	email = normalizeEmail(email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return PublicUser{}, apperrors.MissingFields(missing...)
	}

	user, err := s.users.QueryByEmail(ctx, email)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return PublicUser{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return PublicUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return PublicUser{}, apperrors.ErrInvalidCredentials
	}
	return toPublic(user), nil
}
