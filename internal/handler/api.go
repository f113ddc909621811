package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/service"
	"gorm.io/gorm"
)

// Options 汇总构造 API 时需要的外部依赖与开关。
type Options struct {
	// Tokens 用于登录签发与 Bearer 校验。
	Tokens *service.JWTIdentityProvider
	// Verifier 为空时使用 Tokens。
	Verifier service.IdentityVerifier

	AI        service.AIProviderSettings
	Generator service.MealPlanGeneratorOptions
	Publisher service.MealPlanPublisher

	// ExposeRawOutput 为 true 时，模型输出解析失败的错误信息中附带原文。
	ExposeRawOutput bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	users     *service.UserService
	records   *service.HealthRecordService
	recipes   *service.RecipeService
	meals     *service.MealService
	plans     *service.MealPlanService
	generator *service.MealPlanGenerator
	tokens    *service.JWTIdentityProvider
	verifier  service.IdentityVerifier
	exposeRaw bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	users := service.NewUserService(gdb)
	recipes := service.NewRecipeService(gdb)
	plans := service.NewMealPlanService(gdb, users)
	if opts.Publisher != nil {
		plans.SetPublisher(opts.Publisher)
	}

	verifier := opts.Verifier
	if verifier == nil && opts.Tokens != nil {
		verifier = opts.Tokens
	}

	return &API{
		db:        gdb,
		users:     users,
		records:   service.NewHealthRecordService(gdb, users),
		recipes:   recipes,
		meals:     service.NewMealService(gdb, users, recipes),
		plans:     plans,
		generator: service.NewMealPlanGenerator(gdb, plans, opts.AI, opts.Generator),
		tokens:    opts.Tokens,
		verifier:  verifier,
		exposeRaw: opts.ExposeRawOutput,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// SetAIHTTPClient 替换模型调用使用的 HTTP 客户端，测试中用于注入假响应。
func (a *API) SetAIHTTPClient(client interface {
	Do(*http.Request) (*http.Response, error)
}) {
	a.generator.SetHTTPClient(client)
}

// SetRandomSource 替换随机餐单使用的随机数来源。
func (a *API) SetRandomSource(intn func(int) int) {
	a.plans.SetRandomSource(intn)
}

// Ping 健康检查
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
