package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"grocerylist-api/internal/container"
	handlers "grocerylist-api/internal/interface/http"
	"grocerylist-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints with IP-based rate limits; internal IPs bypass.
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/confirm-registration", confirmLimiter, m.Handler.ConfirmRegistration)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", m.Handler.Logout)

	// Session-guarded endpoints
	auth := rg.Group("/")
	auth.Use(middleware.SessionRequired(container.GetSessions()))
	{
		auth.GET("/profile", m.Handler.Profile)
	}
}
