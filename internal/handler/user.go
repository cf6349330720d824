package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amspokrm578/Tooling-application/internal/store"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler 负责用户 CRUD 接口（注册/登录在 AuthHandler）
type UserHandler struct {
	Users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的用户 ID")
		return 0, false
	}
	return uint(id), true
}

func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "用户不存在")
	case errors.Is(err, store.ErrEmailTaken):
		util.Error(c, http.StatusConflict, util.CodeConflict, "该邮箱已被注册")
	case errors.Is(err, store.ErrNoFields):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "没有需要更新的字段")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "操作失败，请稍后再试")
	}
}

// ---------- 用户列表 ----------

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List()
	if err != nil {
		storeError(c, err)
		return
	}

	list := make([]gin.H, 0, len(users))
	for i := range users {
		list = append(list, userResp(&users[i]))
	}
	util.Success(c, util.Response{
		"users": list,
		"total": len(list),
	})
}

// ---------- 单个用户 ----------

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.Users.FindByID(id)
	if err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"user": userResp(user),
	})
}

// ---------- 创建用户 ----------

type createUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "姓名、邮箱和密码均不能为空")
		return
	}
	if err := util.ValidateName(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "姓名格式不正确")
		return
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "邮箱格式不正确")
		return
	}

	user, err := h.Users.Create(req.Name, req.Email, req.Password)
	if err != nil {
		storeError(c, err)
		return
	}
	util.Created(c, util.Response{
		"message": "创建成功",
		"user":    userResp(user),
	})
}

// ---------- 更新用户 ----------

// updateUserReq 指针字段：nil 表示不更新该字段
type updateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}
	if req.Name != nil {
		if err := util.ValidateName(*req.Name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "姓名格式不正确")
			return
		}
	}
	if req.Email != nil {
		if err := util.ValidateEmail(*req.Email); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "邮箱格式不正确")
			return
		}
	}

	user, err := h.Users.Update(id, store.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "更新成功",
		"user":    userResp(user),
	})
}

// ---------- 删除用户 ----------

// DeleteUser 删除用户（先级联删除它的会话，见 UserStore.Delete）
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(id); err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message": "删除成功",
	})
}
