package store

import (
	"errors"
	"testing"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
)

func TestSessionStore_IssueAndValidate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	user, err := users.Create("张三", "sess@example.com", "Secret123")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	session, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("签发会话失败: %v", err)
	}
	if session.Token == "" {
		t.Fatal("token 不应为空")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("过期时间应在未来")
	}

	got, err := sessions.Validate(session.Token)
	if err != nil {
		t.Fatalf("校验会话失败: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("解析出的用户不对: 期望%d，实际%d", user.ID, got.ID)
	}

	// 同一用户可以同时持有多个有效会话
	session2, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("第二次签发失败: %v", err)
	}
	if session2.Token == session.Token {
		t.Error("两次签发的 token 不应相同")
	}
	if _, err := sessions.Validate(session.Token); err != nil {
		t.Errorf("第一个会话应仍然有效: %v", err)
	}
}

func TestSessionStore_ValidateRejects(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	user, _ := users.Create("张三", "rej@example.com", "Secret123")
	session, _ := sessions.Issue(user.ID)

	// 签名不对：换个密钥的 store 直接拒绝，不查库
	other := NewSessionStore(db, "different-secret", time.Hour)
	if _, err := other.Validate(session.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("签名不符应返回 ErrSessionInvalid，实际 %v", err)
	}

	// 篡改 token
	if _, err := sessions.Validate(session.Token + "x"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("被篡改的 token 应返回 ErrSessionInvalid，实际 %v", err)
	}

	// 签名合法但表里没有这行（吊销后）
	if err := sessions.Revoke(session.Token); err != nil {
		t.Fatalf("吊销失败: %v", err)
	}
	if _, err := sessions.Validate(session.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("已吊销的 token 应返回 ErrSessionInvalid，实际 %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	user, _ := users.Create("张三", "exp@example.com", "Secret123")
	session, _ := sessions.Issue(user.ID)

	// 把过期时间改到过去，模拟时钟前进
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Session{}).
		Where("token = ?", session.Token).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("修改过期时间失败: %v", err)
	}

	if _, err := sessions.Validate(session.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("过期会话应返回 ErrSessionInvalid，实际 %v", err)
	}

	// 过期的行应被惰性回收
	var count int64
	db.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
	if count != 0 {
		t.Error("过期会话应在校验时被删除")
	}
}

func TestSessionStore_RevokeIdempotent(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	// 吊销不存在的 token 不算错误
	if err := sessions.Revoke("no-such-token"); err != nil {
		t.Errorf("吊销不存在的 token 不应报错: %v", err)
	}
}

func TestSessionStore_Refresh(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	user, _ := users.Create("张三", "ref@example.com", "Secret123")
	oldSession, _ := sessions.Issue(user.ID)

	newSession, gotUser, err := sessions.Refresh(oldSession.Token)
	if err != nil {
		t.Fatalf("换发失败: %v", err)
	}
	if gotUser.ID != user.ID {
		t.Errorf("换发返回的用户不对: %d", gotUser.ID)
	}
	if newSession.Token == oldSession.Token {
		t.Error("新旧 token 不应相同")
	}

	// 新 token 有效，旧 token 失效
	if _, err := sessions.Validate(newSession.Token); err != nil {
		t.Errorf("新 token 应有效: %v", err)
	}
	if _, err := sessions.Validate(oldSession.Token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("旧 token 应已失效，实际 %v", err)
	}

	// 用无效 token 换发
	if _, _, err := sessions.Refresh("garbage"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("无效 token 换发应返回 ErrSessionInvalid，实际 %v", err)
	}
}
