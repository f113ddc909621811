package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/healthmeal/internal/db"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 餐单来源，随创建事件一并发布
const (
	MealPlanSourceManual = "manual"
	MealPlanSourceRandom = "random"
	MealPlanSourceAI     = "ai"
)

// maxRandomPlanDays 限制随机分配一次覆盖的天数
const maxRandomPlanDays = 366

// MealPlanService 负责餐单的持久化与重叠区间清理
// 同一用户的餐单区间互不重叠：写入新餐单前先删除所有与其重叠的旧餐单（后写覆盖）
type MealPlanService struct {
	db        *gorm.DB
	users     *UserService
	publisher MealPlanPublisher
	locks     *userLocks
	randIntn  func(int) int
}

// MealPlanInput 定义手动创建餐单时的字段
type MealPlanInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Plan      map[string]any
}

// RandomPlanInput 定义随机分配餐单的日期区间（含首尾）
type RandomPlanInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// NewMealPlanService 构造 MealPlanService，默认不发布事件
func NewMealPlanService(gdb *gorm.DB, users *UserService) *MealPlanService {
	return &MealPlanService{
		db:        gdb,
		users:     users,
		publisher: NoopMealPlanPublisher{},
		locks:     newUserLocks(),
		randIntn:  rand.IntN,
	}
}

// SetPublisher 替换餐单创建事件的发布器，nil 表示不发布
func (s *MealPlanService) SetPublisher(publisher MealPlanPublisher) {
	if publisher == nil {
		s.publisher = NoopMealPlanPublisher{}
		return
	}
	s.publisher = publisher
}

// SetRandomSource 替换随机数来源，主要用于测试
func (s *MealPlanService) SetRandomSource(intn func(int) int) {
	if intn == nil {
		s.randIntn = rand.IntN
		return
	}
	s.randIntn = intn
}

// Get 根据 ID 获取餐单
func (s *MealPlanService) Get(id string) (*db.MealPlan, error) {
	var plan db.MealPlan
	if err := s.db.Where("id = ?", strings.TrimSpace(id)).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealPlanNotFound
		}
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return &plan, nil
}

// ListByUser 按开始日期倒序返回用户的餐单
func (s *MealPlanService) ListByUser(userID string) ([]db.MealPlan, error) {
	var plans []db.MealPlan
	if err := s.db.Where("user_id = ?", strings.TrimSpace(userID)).
		Order("start_date DESC").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	return plans, nil
}

// Delete 删除指定餐单
func (s *MealPlanService) Delete(id string) error {
	result := s.db.Where("id = ?", strings.TrimSpace(id)).Delete(&db.MealPlan{})
	if result.Error != nil {
		return fmt.Errorf("delete meal plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMealPlanNotFound
	}
	return nil
}

// DeleteOverlapping 在一个事务内删除用户所有与 [start, end] 重叠的餐单并提交。
// 重叠判定为 existing.start <= end AND existing.end >= start。
func (s *MealPlanService) DeleteOverlapping(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	userID = strings.TrimSpace(userID)
	start = normalizeToDate(start)
	end = normalizeToDate(end)

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, end, start).
			Delete(&db.MealPlan{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete overlapping meal plans: %w", err)
	}
	return deleted, nil
}

// Create 手动创建餐单，写入前清理重叠区间
func (s *MealPlanService) Create(ctx context.Context, input MealPlanInput) (*db.MealPlan, error) {
	start, end, err := validateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(input.UserID)
	if err != nil {
		return nil, err
	}
	userID := user.ID

	var payload datatypes.JSON
	if input.Plan != nil {
		payload, err = encodePlan(SortWeekPlan(input.Plan))
		if err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.DeleteOverlapping(ctx, userID, start, end); err != nil {
		return nil, err
	}

	plan := db.MealPlan{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		PlanJSON:  payload,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("create meal plan: %w", err)
	}

	s.announce(ctx, plan, MealPlanSourceManual)
	return &plan, nil
}

// GenerateRandom 为区间内每天的早中晚各随机分配一道菜谱。
// 餐单与全部餐食记录在同一事务中写入；返回的餐单不附带餐食。
func (s *MealPlanService) GenerateRandom(ctx context.Context, input RandomPlanInput) (*db.MealPlan, error) {
	start, end, err := validateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxRandomPlanDays {
		return nil, invalidInput("range covers %d days, at most %d allowed", days, maxRandomPlanDays)
	}

	user, err := s.users.Get(input.UserID)
	if err != nil {
		return nil, err
	}
	userID := user.ID

	var recipeIDs []string
	if err := s.db.WithContext(ctx).Model(&db.Recipe{}).Pluck("id", &recipeIDs).Error; err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	if len(recipeIDs) == 0 {
		return nil, ErrRecipesEmpty
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.DeleteOverlapping(ctx, userID, start, end); err != nil {
		return nil, err
	}

	plan := db.MealPlan{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("create meal plan: %w", err)
		}

		meals := make([]db.Meal, 0, (int(end.Sub(start).Hours()/24)+1)*len(db.MealTypes))
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			for _, mealType := range db.MealTypes {
				recipeID := lo.SampleBy(recipeIDs, s.randIntn)
				meals = append(meals, db.Meal{
					UserID:   userID,
					Date:     day,
					MealType: mealType,
					RecipeID: &recipeID,
				})
			}
		}

		if err := tx.Create(&meals).Error; err != nil {
			return fmt.Errorf("create meals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, plan, MealPlanSourceRandom)
	return &plan, nil
}

// insertGenerated 写入模型生成的餐单，调用方负责持有用户锁
func (s *MealPlanService) insertGenerated(ctx context.Context, userID string, start time.Time, plan map[string]any) (*db.MealPlan, error) {
	payload, err := encodePlan(plan)
	if err != nil {
		return nil, err
	}

	record := db.MealPlan{
		UserID:    userID,
		StartDate: normalizeToDate(start),
		EndDate:   weekEnd(start),
		PlanJSON:  payload,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create meal plan: %w", err)
	}

	s.announce(ctx, record, MealPlanSourceAI)
	return &record, nil
}

// announce 尽力发布创建事件，失败只记录日志
func (s *MealPlanService) announce(ctx context.Context, plan db.MealPlan, source string) {
	if err := s.publisher.PublishMealPlanCreated(ctx, plan, source); err != nil {
		log.Printf("[MEALPLAN] publish %s plan %s failed: %v", source, plan.ID, err)
	}
}

// DecodePlan 将存储的餐单 JSON 还原，空值返回 nil
func DecodePlan(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var plan map[string]any
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil
	}
	return plan
}

func encodePlan(plan map[string]any) (datatypes.JSON, error) {
	encoded, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode meal plan: %w", err)
	}
	return datatypes.JSON(encoded), nil
}

func validateRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, invalidInput("start_date and end_date are required")
	}
	start = normalizeToDate(start)
	end = normalizeToDate(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, invalidInput("end_date %s is before start_date %s", FormatDate(end), FormatDate(start))
	}
	return start, end, nil
}
