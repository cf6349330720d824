package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken   = errors.New("邮箱已被注册")
	ErrUserNotFound = errors.New("用户不存在")
	ErrNoFields     = errors.New("没有需要更新的字段")
)

// UserStore 负责用户记录的读写，持有注入的数据库句柄。
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// NormalizeEmail 统一邮箱存储形式：去空格、转小写。
// 小写入库后，唯一索引天然就是大小写不敏感的。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail 按邮箱查找用户，找不到返回 ErrUserNotFound
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID 按 ID 查找用户，找不到返回 ErrUserNotFound
func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List 返回全部用户（不含密码哈希，靠 json:"-" 保证）
func (s *UserStore) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create 创建用户。密码先哈希再入库；邮箱重复依赖唯一索引报错，
// 不做"先查再插"，并发注册同一邮箱时只有一个能成功。
func (s *UserStore) Create(name, email, password string) (*models.User, error) {
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// UserUpdate 部分更新：nil 表示该字段不变
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// Update 只更新给出的字段；密码会重新哈希。
// 没有任何字段时返回 ErrNoFields，ID 不存在返回 ErrUserNotFound。
func (s *UserStore) Update(id uint, upd UserUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		fields["email"] = NormalizeEmail(*upd.Email)
	}
	if upd.Password != nil {
		hash, err := util.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password_hash"] = hash
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.db.Model(&user).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// Delete 删除用户。先级联删掉它的会话，再删用户本身；
// 会话删除失败直接报错返回，不静默留下孤儿会话。
func (s *UserStore) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.db.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
