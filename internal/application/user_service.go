package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	repo "github.com/oksasatya/digital-legacy/internal/domain/repository"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

type UserService struct {
	Store  repo.UnitOfWork
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name string
}

// Dashboard is the landing summary of a user's plan.
type Dashboard struct {
	User         *entity.User `json:"-"`
	AccountCount int          `json:"account_count"`
	ContactCount int          `json:"contact_count"`
	IsDeceased   bool         `json:"is_deceased"`
}

// SessionKey is the Redis hash holding the active session of a user.
func SessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(store repo.UnitOfWork, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Store: store, JWT: jwt, Redis: rdb, Logger: logger}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrMissingInput)
	}
	users := s.Store.Repos().Users
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Name: name, Password: hash}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Store.Repos().Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil || u == nil {
		helpers.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) tokens(userID int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, nil
}

// Refresh rotates the session id and both tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	u, err := s.Store.Repos().Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	key := SessionKey(u.ID)
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, 0, ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	if s.Redis != nil {
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return pair, u.ID, nil
}

// Logout drops the Redis session so outstanding tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, SessionKey(userID))
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Store.Repos().Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile keeps the session TTL when refreshing the cached name.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	users := s.Store.Repos().Users
	u, err := users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if err := users.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

func (s *UserService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	r := s.Store.Repos()
	accounts, err := r.Accounts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := r.Contacts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{User: u, AccountCount: accounts, ContactCount: contacts, IsDeceased: u.IsDeceased}, nil
}
