package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
)

// MealTypes 按一天内的先后顺序列出餐次。
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}

// Recipe 是菜谱目录条目，生成餐单时只读。
type Recipe struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CookingTime *int
	Difficulty  string
	ImageURL    string
	CreatedAt   time.Time
}

// BeforeCreate 在插入前补齐 UUID 主键。
func (r *Recipe) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Meal 记录某天某一餐次吃什么，与 MealPlan 生命周期互相独立。
type Meal struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	Date      time.Time `gorm:"type:date;index;not null"`
	MealType  string    `gorm:"not null"`
	RecipeID  *string   `gorm:"type:varchar(36);index"`
	Recipe    *Recipe
	CreatedAt time.Time
}

// BeforeCreate 在插入前补齐 UUID 主键。
func (m *Meal) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MealPlan 描述一段日期区间（含首尾）内的餐单。
// 同一用户的区间互不重叠：新建前会删除所有与之重叠的旧餐单。
// PlanJSON 保存模型生成的按星期排列的一周菜单，可为空。
type MealPlan struct {
	ID        string         `gorm:"type:varchar(36);primaryKey"`
	UserID    string         `gorm:"type:varchar(36);index;not null"`
	StartDate time.Time      `gorm:"type:date;index;not null"`
	EndDate   time.Time      `gorm:"type:date;index;not null"`
	PlanJSON  datatypes.JSON `gorm:"column:plan_json"`
	CreatedAt time.Time
}

// BeforeCreate 在插入前补齐 UUID 主键。
func (p *MealPlan) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
