package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/healthmeal/internal/db"
	"gorm.io/gorm"
)

// MealService 负责单条餐食记录的增查
type MealService struct {
	db      *gorm.DB
	users   *UserService
	recipes *RecipeService
}

// MealInput 定义创建餐食记录时的字段
type MealInput struct {
	UserID   string
	Date     time.Time
	MealType string
	RecipeID string
}

// MealFilter 描述按用户查询餐食时的日期区间，零值表示不限
type MealFilter struct {
	Start time.Time
	End   time.Time
}

// NewMealService 构造 MealService
func NewMealService(gdb *gorm.DB, users *UserService, recipes *RecipeService) *MealService {
	return &MealService{db: gdb, users: users, recipes: recipes}
}

// Create 新建餐食记录，引用的菜谱必须存在
func (s *MealService) Create(input MealInput) (*db.Meal, error) {
	mealType := strings.ToLower(strings.TrimSpace(input.MealType))
	if !slices.Contains(db.MealTypes, mealType) {
		return nil, invalidInput("meal type %q is not one of %s", input.MealType, strings.Join(db.MealTypes, "/"))
	}
	if input.Date.IsZero() {
		return nil, invalidInput("date is required")
	}

	if _, err := s.users.Get(input.UserID); err != nil {
		return nil, err
	}

	meal := db.Meal{
		UserID:   strings.TrimSpace(input.UserID),
		Date:     normalizeToDate(input.Date),
		MealType: mealType,
	}

	if recipeID := strings.TrimSpace(input.RecipeID); recipeID != "" {
		if _, err := s.recipes.Get(recipeID); err != nil {
			return nil, err
		}
		meal.RecipeID = &recipeID
	}

	if err := s.db.Create(&meal).Error; err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return &meal, nil
}

// Get 根据 ID 获取餐食记录
func (s *MealService) Get(id string) (*db.Meal, error) {
	var meal db.Meal
	if err := s.db.Preload("Recipe").Where("id = ?", strings.TrimSpace(id)).First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return &meal, nil
}

// ListByUser 按日期与餐次顺序返回用户的餐食记录
func (s *MealService) ListByUser(userID string, filter MealFilter) ([]db.Meal, error) {
	query := s.db.Preload("Recipe").Where("user_id = ?", strings.TrimSpace(userID))
	if !filter.Start.IsZero() {
		query = query.Where("date >= ?", normalizeToDate(filter.Start))
	}
	if !filter.End.IsZero() {
		query = query.Where("date <= ?", normalizeToDate(filter.End))
	}

	var meals []db.Meal
	if err := query.Order("date ASC").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	// 同一天内按早中晚排序
	slices.SortStableFunc(meals, func(a, b db.Meal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return slices.Index(db.MealTypes, a.MealType) - slices.Index(db.MealTypes, b.MealType)
	})
	return meals, nil
}
