package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
	"github.com/samber/lo"
)

type recipePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CookingTime *int   `json:"cooking_time"`
	Difficulty  string `json:"difficulty"`
	ImageURL    string `json:"image_url"`
}

func recipeToPayload(recipe db.Recipe) gin.H {
	descriptionHTML, err := service.RenderDescription(recipe.Description)
	if err != nil {
		log.Printf("[API] render recipe %s description failed: %v", recipe.ID, err)
	}
	return gin.H{
		"id":               recipe.ID,
		"name":             recipe.Name,
		"description":      recipe.Description,
		"description_html": descriptionHTML,
		"cooking_time":     recipe.CookingTime,
		"difficulty":       recipe.Difficulty,
		"image_url":        recipe.ImageURL,
		"created_at":       recipe.CreatedAt,
	}
}

// ListRecipes 返回全部菜谱
func (a *API) ListRecipes(c *gin.Context) {
	recipes, err := a.recipes.List()
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": lo.Map(recipes, func(recipe db.Recipe, _ int) gin.H {
			return recipeToPayload(recipe)
		}),
	})
}

// GetRecipe 返回单个菜谱
func (a *API) GetRecipe(c *gin.Context) {
	recipe, err := a.recipes.Get(c.Param("id"))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeToPayload(*recipe))
}

// CreateRecipe 新建菜谱
func (a *API) CreateRecipe(c *gin.Context) {
	var payload recipePayload
	if !bindJSON(c, &payload, "invalid recipe payload") {
		return
	}

	recipe, err := a.recipes.Create(service.RecipeInput{
		Name:        payload.Name,
		Description: payload.Description,
		CookingTime: payload.CookingTime,
		Difficulty:  payload.Difficulty,
		ImageURL:    payload.ImageURL,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipeToPayload(*recipe))
}
