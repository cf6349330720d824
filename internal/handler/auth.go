package handler

import (
	"errors"
	"net/http"

	"github.com/amspokrm578/Tooling-application/internal/middleware"
	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/service"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责注册/登录/登出/当前用户/换发 token 接口
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// userResp 对外的用户字段，密码哈希永远不出现在这里
func userResp(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

// authError 把业务错误映射成 HTTP 状态码
func authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "服务器开小差了，请稍后再试")
	}
}

// ---------- 注册 ----------

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	result, err := h.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		authError(c, err)
		return
	}

	util.Created(c, util.Response{
		"message":    "注册成功",
		"user":       userResp(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	result, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		authError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":    "登录成功",
		"user":       userResp(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// ---------- 登出 ----------

// Logout 吊销当前会话。没带 token 也返回成功（本来就没登录）。
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.BearerToken(c)
	if err := h.Auth.Logout(token); err != nil {
		authError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "已退出登录",
	})
}

// ---------- 当前用户 ----------

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Auth.CurrentUser(middleware.BearerToken(c))
	if err != nil {
		authError(c, err)
		return
	}
	util.Success(c, util.Response{
		"user": userResp(user),
	})
}

// ---------- 换发 token ----------

// Refresh 用旧 token 换一个新的。旧会话只在新会话签发成功后才吊销，
// 换发失败不会把用户现有的会话弄丢。
func (h *AuthHandler) Refresh(c *gin.Context) {
	result, err := h.Auth.Refresh(middleware.BearerToken(c))
	if err != nil {
		authError(c, err)
		return
	}
	util.Success(c, util.Response{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}
