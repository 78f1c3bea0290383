package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/user-vault/backend/internal/apierror"
	"github.com/user-vault/backend/internal/model"
	"github.com/user-vault/backend/internal/service"
	"github.com/user-vault/backend/internal/validation"
)

const (
	authUserKey     = "auth_user"
	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware guards protected routes with a Bearer access token. Any
// verification failure stops here as a 401; nothing propagates past the
// middleware.
func AuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if accessToken == "" {
			abortUnauthorized(c)
			return
		}

		user, err := tokens.VerifyAccessToken(accessToken)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) (model.UserProjection, bool) {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(model.UserProjection); ok {
			return user, true
		}
	}
	return model.UserProjection{}, false
}

func abortUnauthorized(c *gin.Context) {
	apiErr := apierror.Unauthorized()
	c.AbortWithStatusJSON(apiErr.Status, model.ErrorResponse{Message: apiErr.Message})
}

// ValidationMiddleware runs the field chains against the raw JSON body and
// aborts with the aggregated error list before the handler binds the request.
// An empty body validates like an empty object; unparsable JSON is a plain
// 400.
func ValidationMiddleware(chains ...*validation.Chain) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
			apiErr := apierror.BadRequest("Invalid request body.")
			c.AbortWithStatusJSON(apiErr.Status, model.ErrorResponse{Message: apiErr.Message})
			return
		}

		if errs := validation.Run(body, chains...); len(errs) > 0 {
			apiErr := apierror.Validation(errs)
			c.AbortWithStatusJSON(apiErr.Status, model.ErrorResponse{
				Message:          apiErr.Message,
				ValidationErrors: apiErr.ValidationErrors,
			})
			return
		}

		c.Next()
	}
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
