package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/healthmeal/internal/db"
	"github.com/healthmeal/internal/service"
)

const currentUserContextKey = "__current_user"

type registerPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyPayload struct {
	Token string `json:"token"`
}

func userToPayload(user db.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	}
}

// AuthRequired 校验 Bearer Token，并把对应用户放入上下文
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || a.verifier == nil {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		identity, err := a.verifier.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid bearer token")
			c.Abort()
			return
		}

		// 用户以邮箱关联身份
		user, err := a.users.GetByEmail(identity.Email)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unknown user")
			c.Abort()
			return
		}

		c.Set(currentUserContextKey, *user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentUser(c *gin.Context) (db.User, bool) {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return db.User{}, false
	}
	user, ok := value.(db.User)
	return user, ok
}

// RegisterUser 注册新用户
func (a *API) RegisterUser(c *gin.Context) {
	var payload registerPayload
	if !bindJSON(c, &payload, "invalid user payload") {
		return
	}

	user, err := a.users.Register(service.UserInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToPayload(*user))
}

// Login 使用邮箱与密码换取 Bearer Token
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}

	user, err := a.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	if a.tokens == nil {
		respondError(c, http.StatusInternalServerError, "token issuer is not configured")
		return
	}
	token, err := a.tokens.Issue(service.Identity{Subject: user.ID, Email: user.Email})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToPayload(*user),
	})
}

// VerifyToken 校验 Token 并返回其中的身份
func (a *API) VerifyToken(c *gin.Context) {
	var payload verifyPayload
	if !bindJSON(c, &payload, "invalid token payload") {
		return
	}
	if a.verifier == nil {
		respondError(c, http.StatusUnauthorized, "invalid bearer token")
		return
	}

	identity, err := a.verifier.Verify(payload.Token)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"subject": identity.Subject,
		"email":   identity.Email,
	})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	c.JSON(http.StatusOK, userToPayload(user))
}
