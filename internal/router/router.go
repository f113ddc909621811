package router

import (
	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", api.Ping)

	public := r.Group("/api")
	{
		public.POST("/users", api.RegisterUser)
		public.POST("/auth/login", api.Login)
		public.POST("/auth/verify", api.VerifyToken)
	}

	// 需要 Bearer Token 的接口
	auth := r.Group("/api")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/me", api.Me)

		auth.POST("/health-records", api.CreateHealthRecord)
		auth.DELETE("/health-records/:id", api.DeleteHealthRecord)

		auth.GET("/recipes", api.ListRecipes)
		auth.POST("/recipes", api.CreateRecipe)
		auth.GET("/recipes/:id", api.GetRecipe)

		auth.POST("/meals", api.CreateMeal)
		auth.GET("/meals/:id", api.GetMeal)

		auth.POST("/meal-plans", api.CreateMealPlan)
		auth.POST("/meal-plans/random", api.GenerateRandomMealPlan)
		auth.GET("/meal-plans/:id", api.GetMealPlan)
		auth.DELETE("/meal-plans/:id", api.DeleteMealPlan)

		users := auth.Group("/users/:user_id")
		{
			users.GET("/health-records", api.ListHealthRecords)
			users.GET("/recommendation", api.Recommendation)
			users.GET("/meals", api.ListMeals)
			users.GET("/meal-plans", api.ListMealPlans)
			users.POST("/meal-plans/generate", api.GenerateMealPlan)
		}
	}

	return r
}
