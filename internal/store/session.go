package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 会话默认有效期 7 天
const DefaultSessionTTL = 7 * 24 * time.Hour

var ErrSessionInvalid = errors.New("会话不存在或已过期")

// SessionStore 负责会话的签发、校验和吊销。
// token 是带签名的 JWT，但只有 sessions 表里的记录才算数：
// 签名校验只是挡掉伪造 token 的第一道闸，有效性以表里的行为准。
type SessionStore struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
}

func NewSessionStore(db *gorm.DB, secret string, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{db: db, secret: secret, ttl: ttl}
}

// Issue 为用户签发一个新会话：生成签名 token，落一行会话记录。
// 每次调用都新建一行，同一用户允许同时存在多个有效会话。
func (s *SessionStore) Issue(userID uint) (*models.Session, error) {
	token, err := util.GenerateToken(s.secret, userID, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// Validate 校验 token 并返回对应的用户。
// 任何一步不通过都返回 ErrSessionInvalid：
//  1. 签名无效 -> 直接拒绝，不查库
//  2. 表里没有这行 -> 拒绝
//  3. 已过期 -> 顺手删掉这行（惰性回收），拒绝
//  4. 用户已被删除 -> 删掉会话，拒绝
func (s *SessionStore) Validate(token string) (*models.User, error) {
	claims, err := util.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	var session models.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if !session.ExpiresAt.After(time.Now()) {
		_ = s.db.Delete(&models.Session{}, "id = ?", session.ID).Error
		return nil, ErrSessionInvalid
	}

	var user models.User
	if err := s.db.First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.db.Delete(&models.Session{}, "id = ?", session.ID).Error
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("find session user: %w", err)
	}

	// claims 里的 user_id 和会话行必须一致，不一致说明数据被动过
	if claims.UserID != user.ID {
		return nil, ErrSessionInvalid
	}
	return &user, nil
}

// Revoke 按 token 删除会话。幂等：token 不存在也不算错误。
func (s *SessionStore) Revoke(token string) error {
	if err := s.db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Refresh 用旧 token 换发新会话。
// 顺序必须是先签发、后吊销：如果签发失败，旧会话原样保留，
// 用户不会因为部分失败而一个有效会话都不剩。
func (s *SessionStore) Refresh(oldToken string) (*models.Session, *models.User, error) {
	user, err := s.Validate(oldToken)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}

	// 新会话已经落库，这里吊销失败只会短暂多出一个有效会话
	_ = s.Revoke(oldToken)

	return session, user, nil
}
