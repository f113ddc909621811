package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/healthmeal/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HealthRecordService 负责健康记录的录入与查询
// 记录一经创建不再修改，仅支持删除
type HealthRecordService struct {
	db    *gorm.DB
	users *UserService
}

// HealthRecordInput 定义录入健康记录时的字段
type HealthRecordInput struct {
	UserID string
	Date   time.Time
	Age    int
	Gender string

	Height                 *float64
	Weight                 *float64
	BMI                    *float64
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	BloodSugar             *float64
	HbA1c                  *float64
	CholesterolTotal       *float64
	CholesterolHDL         *float64
	CholesterolLDL         *float64
	Triglycerides          *float64
	LiverGOT               *float64
	LiverGPT               *float64
	LiverRGPT              *float64

	Anomalies map[string]string
}

// NewHealthRecordService 构造 HealthRecordService
func NewHealthRecordService(gdb *gorm.DB, users *UserService) *HealthRecordService {
	return &HealthRecordService{db: gdb, users: users}
}

// Create 录入一条健康记录，用户不存在时返回 ErrUserNotFound
func (s *HealthRecordService) Create(input HealthRecordInput) (*db.HealthRecord, error) {
	if input.Date.IsZero() {
		return nil, invalidInput("date is required")
	}
	if input.Age <= 0 {
		return nil, invalidInput("age must be positive")
	}
	if strings.TrimSpace(input.Gender) == "" {
		return nil, invalidInput("gender is required")
	}

	if _, err := s.users.Get(input.UserID); err != nil {
		return nil, err
	}

	record, err := healthRecordFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create health record: %w", err)
	}
	return &record, nil
}

// ListByUser 按日期倒序返回用户的全部健康记录
func (s *HealthRecordService) ListByUser(userID string) ([]db.HealthRecord, error) {
	var records []db.HealthRecord
	if err := s.db.Where("user_id = ?", strings.TrimSpace(userID)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	return records, nil
}

// Latest 返回用户日期最新的一条健康记录
func (s *HealthRecordService) Latest(userID string) (*db.HealthRecord, error) {
	return latestHealthRecord(s.db, userID)
}

// Recommend 对最新一条健康记录运行营养分类
func (s *HealthRecordService) Recommend(userID string) ([]string, error) {
	record, err := s.Latest(userID)
	if err != nil {
		return nil, err
	}
	return ClassifyHealthRecord(*record), nil
}

// Delete 删除指定健康记录
func (s *HealthRecordService) Delete(id string) error {
	result := s.db.Where("id = ?", strings.TrimSpace(id)).Delete(&db.HealthRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete health record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHealthRecordNotFound
	}
	return nil
}

func latestHealthRecord(gdb *gorm.DB, userID string) (*db.HealthRecord, error) {
	var record db.HealthRecord
	if err := gdb.Where("user_id = ?", strings.TrimSpace(userID)).
		Order("date DESC").
		Order("created_at DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHealthRecordNotFound
		}
		return nil, fmt.Errorf("find latest health record: %w", err)
	}
	return &record, nil
}

func healthRecordFromInput(input HealthRecordInput) (db.HealthRecord, error) {
	record := db.HealthRecord{
		UserID:                 strings.TrimSpace(input.UserID),
		Date:                   normalizeToDate(input.Date),
		Age:                    input.Age,
		Gender:                 strings.TrimSpace(input.Gender),
		Height:                 input.Height,
		Weight:                 input.Weight,
		BMI:                    input.BMI,
		BloodPressureSystolic:  input.BloodPressureSystolic,
		BloodPressureDiastolic: input.BloodPressureDiastolic,
		BloodSugar:             input.BloodSugar,
		HbA1c:                  input.HbA1c,
		CholesterolTotal:       input.CholesterolTotal,
		CholesterolHDL:         input.CholesterolHDL,
		CholesterolLDL:         input.CholesterolLDL,
		Triglycerides:          input.Triglycerides,
		LiverGOT:               input.LiverGOT,
		LiverGPT:               input.LiverGPT,
		LiverRGPT:              input.LiverRGPT,
	}

	if input.Anomalies != nil {
		encoded, err := json.Marshal(input.Anomalies)
		if err != nil {
			return db.HealthRecord{}, fmt.Errorf("encode anomalies: %w", err)
		}
		record.Anomalies = datatypes.JSON(encoded)
	}
	return record, nil
}

// DecodeAnomalies 将存储的异常项还原为映射，空值返回 nil
func DecodeAnomalies(raw datatypes.JSON) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var anomalies map[string]string
	if err := json.Unmarshal(raw, &anomalies); err != nil {
		return nil
	}
	return anomalies
}
