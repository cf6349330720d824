package store

import (
	"errors"
	"testing"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)

	user, err := users.Create("张三", "Zhang.San@Example.COM", "Secret123")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	// 邮箱应小写入库
	if user.Email != "zhang.san@example.com" {
		t.Errorf("邮箱未规范化: %s", user.Email)
	}
	// 密码不应明文入库
	if user.PasswordHash == "Secret123" {
		t.Error("密码不应明文存储")
	}
	if !util.CheckPassword("Secret123", user.PasswordHash) {
		t.Error("存储的哈希应能验证原密码")
	}

	// 不同大小写都能查到
	found, err := users.FindByEmail("ZHANG.SAN@example.com")
	if err != nil {
		t.Fatalf("按邮箱查找失败: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("查到的用户不对: 期望%d，实际%d", user.ID, found.ID)
	}

	if _, err := users.FindByEmail("nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的邮箱应返回 ErrUserNotFound，实际 %v", err)
	}
	if _, err := users.FindByID(9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的 ID 应返回 ErrUserNotFound，实际 %v", err)
	}
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)

	if _, err := users.Create("张三", "dup@example.com", "Secret123"); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	// 同邮箱（含大小写变体）再注册应失败，与密码无关
	if _, err := users.Create("李四", "DUP@example.com", "Other456"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应返回 ErrEmailTaken，实际 %v", err)
	}
}

func TestUserStore_Update(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)

	user, err := users.Create("张三", "upd@example.com", "Secret123")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	// 没有字段可更新
	if _, err := users.Update(user.ID, UserUpdate{}); !errors.Is(err, ErrNoFields) {
		t.Errorf("空更新应返回 ErrNoFields，实际 %v", err)
	}

	// 只更新名称，邮箱和密码不变
	name := "张三丰"
	updated, err := users.Update(user.ID, UserUpdate{Name: &name})
	if err != nil {
		t.Fatalf("更新名称失败: %v", err)
	}
	if updated.Name != "张三丰" {
		t.Errorf("名称未更新: %s", updated.Name)
	}
	if updated.Email != "upd@example.com" {
		t.Errorf("邮箱不应被改动: %s", updated.Email)
	}

	// 更新密码会重新哈希
	newPass := "NewSecret456"
	updated, err = users.Update(user.ID, UserUpdate{Password: &newPass})
	if err != nil {
		t.Fatalf("更新密码失败: %v", err)
	}
	if !util.CheckPassword("NewSecret456", updated.PasswordHash) {
		t.Error("新密码验证失败")
	}
	if util.CheckPassword("Secret123", updated.PasswordHash) {
		t.Error("旧密码不应再通过验证")
	}

	// 不存在的 ID
	if _, err := users.Update(9999, UserUpdate{Name: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的 ID 应返回 ErrUserNotFound，实际 %v", err)
	}
}

func TestUserStore_DeleteCascadesSessions(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db, "test-secret", time.Hour)

	user, err := users.Create("张三", "del@example.com", "Secret123")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	if _, err := sessions.Issue(user.ID); err != nil {
		t.Fatalf("签发会话失败: %v", err)
	}
	if _, err := sessions.Issue(user.ID); err != nil {
		t.Fatalf("签发会话失败: %v", err)
	}

	if err := users.Delete(user.ID); err != nil {
		t.Fatalf("删除用户失败: %v", err)
	}

	// 用户和它的会话都应被删掉
	if _, err := users.FindByID(user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("用户应已删除，实际 %v", err)
	}
	var count int64
	db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("会话应被级联删除，剩余 %d 条", count)
	}

	// 删除不存在的用户
	if err := users.Delete(9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("不存在的用户应返回 ErrUserNotFound，实际 %v", err)
	}
}
