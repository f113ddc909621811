package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/healthmeal/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 负责用户注册、查询与密码校验
type UserService struct {
	db *gorm.DB
}

// UserInput 定义注册用户时的字段
type UserInput struct {
	Email    string
	Name     string
	Password string
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register 创建新用户，密码以 bcrypt 哈希保存。
func (s *UserService) Register(input UserInput) (*db.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, invalidInput("email %q is invalid", input.Email)
	}
	if name == "" {
		return nil, invalidInput("name is required")
	}
	if len(input.Password) < 8 {
		return nil, invalidInput("password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Get 根据 ID 获取用户
func (s *UserService) Get(id string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("id = ?", strings.TrimSpace(id)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户，邮箱比较不区分大小写
func (s *UserService) GetByEmail(email string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// Authenticate 校验邮箱与密码，成功时返回用户
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
