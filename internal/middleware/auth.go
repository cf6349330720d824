package middleware

import (
	"net/http"
	"strings"

	"github.com/amspokrm578/Tooling-application/internal/service"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
)

// BearerToken 从 Authorization: Bearer xxx 头里取出 token，
// 取不到时退回 ?token=xxx 查询参数（用于下载等无法自定义 Header 的场景）。
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}

// AuthMiddleware 校验会话 token，并在 context 里放入当前用户。
// token 的有效性以 sessions 表为准，签名只是第一道闸。
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
			c.Abort()
			return
		}

		user, err := auth.CurrentUser(token)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}
