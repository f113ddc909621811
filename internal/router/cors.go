package router

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS 为前端来源包装跨域处理
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
