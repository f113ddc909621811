package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"github.com/samber/lo"
)

type healthRecordPayload struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`

	Height                 *float64 `json:"height"`
	Weight                 *float64 `json:"weight"`
	BMI                    *float64 `json:"bmi"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic"`
	BloodSugar             *float64 `json:"blood_sugar"`
	HbA1c                  *float64 `json:"hba1c"`
	CholesterolTotal       *float64 `json:"cholesterol_total"`
	CholesterolHDL         *float64 `json:"cholesterol_hdl"`
	CholesterolLDL         *float64 `json:"cholesterol_ldl"`
	Triglycerides          *float64 `json:"triglycerides"`
	LiverGOT               *float64 `json:"liver_got"`
	LiverGPT               *float64 `json:"liver_gpt"`
	LiverRGPT              *float64 `json:"liver_r_gpt"`

	Anomalies map[string]string `json:"anomalies"`
}

func healthRecordToPayload(record db.HealthRecord) gin.H {
	return gin.H{
		"id":                       record.ID,
		"user_id":                  record.UserID,
		"date":                     service.FormatDate(record.Date),
		"age":                      record.Age,
		"gender":                   record.Gender,
		"height":                   record.Height,
		"weight":                   record.Weight,
		"bmi":                      record.BMI,
		"blood_pressure_systolic":  record.BloodPressureSystolic,
		"blood_pressure_diastolic": record.BloodPressureDiastolic,
		"blood_sugar":              record.BloodSugar,
		"hba1c":                    record.HbA1c,
		"cholesterol_total":        record.CholesterolTotal,
		"cholesterol_hdl":          record.CholesterolHDL,
		"cholesterol_ldl":          record.CholesterolLDL,
		"triglycerides":            record.Triglycerides,
		"liver_got":                record.LiverGOT,
		"liver_gpt":                record.LiverGPT,
		"liver_r_gpt":              record.LiverRGPT,
		"anomalies":                service.DecodeAnomalies(record.Anomalies),
		"created_at":               record.CreatedAt,
	}
}

// CreateHealthRecord 录入健康记录
func (a *API) CreateHealthRecord(c *gin.Context) {
	var payload healthRecordPayload
	if !bindJSON(c, &payload, "invalid health record payload") {
		return
	}

	date, err := parseDateField(payload.Date, "date")
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	record, err := a.records.Create(service.HealthRecordInput{
		UserID:                 payload.UserID,
		Date:                   date,
		Age:                    payload.Age,
		Gender:                 payload.Gender,
		Height:                 payload.Height,
		Weight:                 payload.Weight,
		BMI:                    payload.BMI,
		BloodPressureSystolic:  payload.BloodPressureSystolic,
		BloodPressureDiastolic: payload.BloodPressureDiastolic,
		BloodSugar:             payload.BloodSugar,
		HbA1c:                  payload.HbA1c,
		CholesterolTotal:       payload.CholesterolTotal,
		CholesterolHDL:         payload.CholesterolHDL,
		CholesterolLDL:         payload.CholesterolLDL,
		Triglycerides:          payload.Triglycerides,
		LiverGOT:               payload.LiverGOT,
		LiverGPT:               payload.LiverGPT,
		LiverRGPT:              payload.LiverRGPT,
		Anomalies:              payload.Anomalies,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, healthRecordToPayload(*record))
}

// ListHealthRecords 返回用户的健康记录，没有记录时返回 404
func (a *API) ListHealthRecords(c *gin.Context) {
	records, err := a.records.ListByUser(c.Param("user_id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	if len(records) == 0 {
		a.respondServiceError(c, service.ErrHealthRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health_records": lo.Map(records, func(record db.HealthRecord, _ int) gin.H {
			return healthRecordToPayload(record)
		}),
	})
}

// DeleteHealthRecord 删除健康记录
func (a *API) DeleteHealthRecord(c *gin.Context) {
	if err := a.records.Delete(c.Param("id")); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Recommendation 根据最新健康记录返回推荐的营养类型
func (a *API) Recommendation(c *gin.Context) {
	userID := c.Param("user_id")
	record, err := a.records.Latest(userID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"record_id":       record.ID,
		"record_date":     service.FormatDate(record.Date),
		"nutrition_types": service.ClassifyHealthRecord(*record),
	})
}
