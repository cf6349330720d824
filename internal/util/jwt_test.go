package util

import (
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID 错误: 期望42，实际%d", claims.UserID)
	}
	if claims.ID == "" {
		t.Error("jti 不应为空")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(testSecret, 1, time.Hour)

	if _, err := ParseToken("another-secret", token); err == nil {
		t.Error("错误密钥签出的 token 不应通过验证")
	}
}

func TestParseToken_Expired(t *testing.T) {
	// ttl 为负时 GenerateToken 会退回默认 7 天，这里手工构造已过期的场景：
	// 先签一个 1 纳秒有效期的 token，再等它过期
	token, err := GenerateToken(testSecret, 1, time.Nanosecond)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("过期 token 不应通过验证")
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	// 同一用户同一时刻签发的 token 也必须互不相同（jti 保证）
	t1, _ := GenerateToken(testSecret, 7, time.Hour)
	t2, _ := GenerateToken(testSecret, 7, time.Hour)
	if t1 == t2 {
		t.Error("同一用户的两个 token 不应相同")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not-a-jwt"); err == nil {
		t.Error("非法字符串不应解析成功")
	}
}
