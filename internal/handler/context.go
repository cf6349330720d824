package handler

import (
	"github.com/amspokrm578/Tooling-application/internal/models"

	"github.com/gin-gonic/gin"
)

// currentUser 取出 AuthMiddleware 放进 context 的登录用户，
// 没有或类型不对返回 nil。
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
