package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"github.com/samber/lo"
)

type mealPlanPayload struct {
	UserID    string         `json:"user_id"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	PlanJSON  map[string]any `json:"plan_json"`
}

type randomMealPlanPayload struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func mealPlanToPayload(plan db.MealPlan) gin.H {
	return gin.H{
		"id":         plan.ID,
		"user_id":    plan.UserID,
		"start_date": service.FormatDate(plan.StartDate),
		"end_date":   service.FormatDate(plan.EndDate),
		"plan_json":  service.DecodePlan(plan.PlanJSON),
		"created_at": plan.CreatedAt,
	}
}

func parsePlanRange(startRaw, endRaw string) (service.RandomPlanInput, error) {
	start, err := parseDateField(startRaw, "start_date")
	if err != nil {
		return service.RandomPlanInput{}, err
	}
	end, err := parseDateField(endRaw, "end_date")
	if err != nil {
		return service.RandomPlanInput{}, err
	}
	return service.RandomPlanInput{StartDate: start, EndDate: end}, nil
}

// CreateMealPlan 手动保存餐单，同区间的旧餐单会被替换
func (a *API) CreateMealPlan(c *gin.Context) {
	var payload mealPlanPayload
	if !bindJSON(c, &payload, "invalid meal plan payload") {
		return
	}

	dates, err := parsePlanRange(payload.StartDate, payload.EndDate)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	plan, err := a.plans.Create(c.Request.Context(), service.MealPlanInput{
		UserID:    payload.UserID,
		StartDate: dates.StartDate,
		EndDate:   dates.EndDate,
		Plan:      payload.PlanJSON,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mealPlanToPayload(*plan))
}

// GenerateRandomMealPlan 用菜谱目录随机填充区间内每天的三餐
func (a *API) GenerateRandomMealPlan(c *gin.Context) {
	var payload randomMealPlanPayload
	if !bindJSON(c, &payload, "invalid random meal plan payload") {
		return
	}

	input, err := parsePlanRange(payload.StartDate, payload.EndDate)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	input.UserID = payload.UserID

	plan, err := a.plans.GenerateRandom(c.Request.Context(), input)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mealPlanToPayload(*plan))
}

// GenerateMealPlan 基于最新健康记录调用大模型生成一周餐单
func (a *API) GenerateMealPlan(c *gin.Context) {
	plan, err := a.generator.Generate(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mealPlanToPayload(*plan))
}

// GetMealPlan 返回单个餐单
func (a *API) GetMealPlan(c *gin.Context) {
	plan, err := a.plans.Get(c.Param("id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealPlanToPayload(*plan))
}

// ListMealPlans 返回用户的全部餐单
func (a *API) ListMealPlans(c *gin.Context) {
	plans, err := a.plans.ListByUser(c.Param("user_id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meal_plans": lo.Map(plans, func(plan db.MealPlan, _ int) gin.H {
			return mealPlanToPayload(plan)
		}),
	})
}

// DeleteMealPlan 删除餐单，不影响已生成的餐食记录
func (a *API) DeleteMealPlan(c *gin.Context) {
	if err := a.plans.Delete(c.Param("id")); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
