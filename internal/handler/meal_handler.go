package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"github.com/samber/lo"
)

type mealPayload struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
	RecipeID string `json:"recipe_id"`
}

func mealToPayload(meal db.Meal) gin.H {
	payload := gin.H{
		"id":         meal.ID,
		"user_id":    meal.UserID,
		"date":       service.FormatDate(meal.Date),
		"meal_type":  meal.MealType,
		"recipe_id":  meal.RecipeID,
		"created_at": meal.CreatedAt,
	}
	if meal.Recipe != nil {
		payload["recipe"] = recipeToPayload(*meal.Recipe)
	}
	return payload
}

// CreateMeal 记录一餐
func (a *API) CreateMeal(c *gin.Context) {
	var payload mealPayload
	if !bindJSON(c, &payload, "invalid meal payload") {
		return
	}

	date, err := parseDateField(payload.Date, "date")
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	meal, err := a.meals.Create(service.MealInput{
		UserID:   payload.UserID,
		Date:     date,
		MealType: payload.MealType,
		RecipeID: payload.RecipeID,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mealToPayload(*meal))
}

// GetMeal 返回单条餐食记录
func (a *API) GetMeal(c *gin.Context) {
	meal, err := a.meals.Get(c.Param("id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealToPayload(*meal))
}

// ListMeals 返回用户的餐食记录，可用 start/end 查询参数限定日期
func (a *API) ListMeals(c *gin.Context) {
	start, err := parseOptionalDateQuery(c, "start")
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	end, err := parseOptionalDateQuery(c, "end")
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	meals, err := a.meals.ListByUser(c.Param("user_id"), service.MealFilter{Start: start, End: end})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meals": lo.Map(meals, func(meal db.Meal, _ int) gin.H {
			return mealToPayload(meal)
		}),
	})
}
