package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// loadTestConfig 加载一份测试配置。config.Load 只会真正执行一次，
// 后续调用拿到的是同一份配置。
func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "jwt:\n  issuer: test-issuer\nsecurity:\n  bcrypt_cost: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	return cfg
}

func TestHashPassword_CostFromConfig(t *testing.T) {
	cfg := loadTestConfig(t)
	if cfg.Security.BcryptCost != 4 {
		t.Fatalf("bcrypt_cost 读取错误: %d", cfg.Security.BcryptCost)
	}

	hashed, err := HashPassword("MyPassword123")
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		t.Fatalf("读取 cost 失败: %v", err)
	}
	if cost != 4 {
		t.Errorf("cost 错误: 期望4，实际%d", cost)
	}
}

func TestGenerateToken_IssuerFromConfig(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateToken(testSecret, 1, time.Hour)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("iss 错误: 期望 test-issuer，实际 %q", claims.Issuer)
	}
}
