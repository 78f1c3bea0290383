package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user-vault/backend/internal/service"
	"github.com/user-vault/backend/internal/validation"
)

func NewRouter(auth *AuthHandler, users *UserHandler, tokens *service.TokenService, allowedOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(allowedOrigins, true))

	authGroup := router.Group("/auth")
	authGroup.POST("/register", ValidationMiddleware(validation.RegisterRules()...), auth.Register)
	authGroup.POST("/login", ValidationMiddleware(validation.LoginRules()...), auth.Login)
	authGroup.POST("/logout", auth.Logout)
	authGroup.POST("/refresh", auth.Refresh)

	userGroup := router.Group("/user")
	userGroup.GET("", AuthMiddleware(tokens), users.GetAll)

	return router
}
