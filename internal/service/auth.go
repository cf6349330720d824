package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/store"
	"github.com/amspokrm578/Tooling-application/internal/util"
)

// 认证相关的业务错误。HTTP 层按这些错误映射状态码：
// MissingFields -> 400，InvalidCredentials/Unauthenticated -> 401，
// AlreadyExists -> 409，其余按 500 处理。
var (
	ErrMissingFields      = errors.New("姓名、邮箱和密码均不能为空")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAlreadyExists      = errors.New("该邮箱已被注册")
	ErrUnauthenticated    = errors.New("未登录或登录已失效")
)

// AuthService 组合用户存储和会话存储，提供注册/登录/登出/
// 当前用户/换发 token 五个操作。
type AuthService struct {
	users    *store.UserStore
	sessions *store.SessionStore
}

func NewAuthService(users *store.UserStore, sessions *store.SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// AuthResult 注册/登录/换发成功后的返回：用户 + 新 token + 过期时间
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Register 注册新用户并直接签发会话。
// 邮箱查重不在这里做——并发注册同一邮箱时唯一索引才是判定依据。
func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.Create(name, email, password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &AuthResult{User: user, Token: session.Token, ExpiresAt: session.ExpiresAt}, nil
}

// Login 校验邮箱+密码并签发新会话。
// 邮箱不存在和密码错误返回同一个错误，不向调用方泄露是哪一种。
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &AuthResult{User: user, Token: session.Token, ExpiresAt: session.ExpiresAt}, nil
}

// Logout 吊销会话。没带 token 视为无事发生，直接成功。
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(token)
}

// CurrentUser 按 token 解析当前登录用户
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.sessions.Validate(token)
	if err != nil {
		if errors.Is(err, store.ErrSessionInvalid) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// Refresh 用旧 token 换发新会话（先签发、后吊销，见 SessionStore.Refresh）
func (s *AuthService) Refresh(oldToken string) (*AuthResult, error) {
	if oldToken == "" {
		return nil, ErrUnauthenticated
	}
	session, user, err := s.sessions.Refresh(oldToken)
	if err != nil {
		if errors.Is(err, store.ErrSessionInvalid) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &AuthResult{User: user, Token: session.Token, ExpiresAt: session.ExpiresAt}, nil
}
