package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/healthmeal/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RecipeService 管理菜谱目录
type RecipeService struct {
	db *gorm.DB
}

// RecipeInput 定义创建菜谱时的字段
type RecipeInput struct {
	Name        string
	Description string
	CookingTime *int
	Difficulty  string
	ImageURL    string
}

// NewRecipeService 构造 RecipeService
func NewRecipeService(gdb *gorm.DB) *RecipeService {
	return &RecipeService{db: gdb}
}

// Create 新建菜谱
func (s *RecipeService) Create(input RecipeInput) (*db.Recipe, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("recipe name is required")
	}
	if input.CookingTime != nil && *input.CookingTime < 0 {
		return nil, invalidInput("cooking time must not be negative")
	}

	recipe := db.Recipe{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CookingTime: input.CookingTime,
		Difficulty:  strings.TrimSpace(input.Difficulty),
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	if err := s.db.Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return &recipe, nil
}

// List 返回全部菜谱
func (s *RecipeService) List() ([]db.Recipe, error) {
	var recipes []db.Recipe
	if err := s.db.Order("created_at ASC").Order("name ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get 根据 ID 获取菜谱
func (s *RecipeService) Get(id string) (*db.Recipe, error) {
	var recipe db.Recipe
	if err := s.db.Where("id = ?", strings.TrimSpace(id)).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &recipe, nil
}

// RenderDescription 将 Markdown 描述渲染为经过清洗的 HTML
func RenderDescription(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(description), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
