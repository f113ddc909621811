package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HealthRecord 记录一次健康检查结果。
// 记录创建后不可修改；同一用户可以有多条记录，按 Date 区分先后。
// 除 Age/Gender 外的指标允许为空，分类规则将缺失值视为 0。
type HealthRecord struct {
	ID     string    `gorm:"type:varchar(36);primaryKey"`
	UserID string    `gorm:"type:varchar(36);index;not null"`
	Date   time.Time `gorm:"type:date;index;not null"`
	Age    int       `gorm:"not null"`
	Gender string    `gorm:"not null"`

	Height                 *float64
	Weight                 *float64
	BMI                    *float64 `gorm:"column:bmi"`
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	BloodSugar             *float64
	HbA1c                  *float64 `gorm:"column:hba1c"`
	CholesterolTotal       *float64
	CholesterolHDL         *float64 `gorm:"column:cholesterol_hdl"`
	CholesterolLDL         *float64 `gorm:"column:cholesterol_ldl"`
	Triglycerides          *float64
	LiverGOT               *float64 `gorm:"column:liver_got"`
	LiverGPT               *float64 `gorm:"column:liver_gpt"`
	LiverRGPT              *float64 `gorm:"column:liver_r_gpt"`

	// Anomalies 保存异常项标签到说明的映射
	Anomalies datatypes.JSON

	CreatedAt time.Time
}

// BeforeCreate 在插入前补齐 UUID 主键。
func (r *HealthRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
