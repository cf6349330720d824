package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ToolHandler 负责工具相关接口
type ToolHandler struct {
	DB *gorm.DB
}

func NewToolHandler(db *gorm.DB) *ToolHandler {
	return &ToolHandler{DB: db}
}

// ---------- 请求/响应结构 ----------

type createToolReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
}

type updateToolReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
}

func (h *ToolHandler) toToolResp(t *models.Tool) (gin.H, error) {
	// 有未归还的借用记录就算借出中
	var open int64
	if err := h.DB.Model(&models.Borrowing{}).
		Where("tool_id = ? AND returned_at IS NULL", t.ID).
		Count(&open).Error; err != nil {
		return nil, err
	}

	return gin.H{
		"id":          t.ID,
		"owner_id":    t.OwnerID,
		"name":        t.Name,
		"description": t.Description,
		"on_loan":     open > 0,
		"created_at":  t.CreatedAt,
	}, nil
}

// ---------- 发布工具 ----------

func (h *ToolHandler) CreateTool(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	var req createToolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "工具名称不能为空")
		return
	}

	tool := models.Tool{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.DB.Create(&tool).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工具失败")
		return
	}

	resp, err := h.toToolResp(&tool)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}
	util.Created(c, util.Response{
		"message": "发布成功",
		"tool":    resp,
	})
}

// ---------- 工具列表 ----------

// ListTools 列出全部工具，支持 ?owner_id=N 按归属过滤
func (h *ToolHandler) ListTools(c *gin.Context) {
	q := h.DB.Model(&models.Tool{}).Order("id")
	if ownerStr := c.Query("owner_id"); ownerStr != "" {
		ownerID, err := strconv.ParseUint(ownerStr, 10, 32)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的 owner_id")
			return
		}
		q = q.Where("owner_id = ?", ownerID)
	}

	var tools []models.Tool
	if err := q.Find(&tools).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	list := make([]gin.H, 0, len(tools))
	for i := range tools {
		resp, err := h.toToolResp(&tools[i])
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
			return
		}
		list = append(list, resp)
	}
	util.Success(c, util.Response{
		"tools": list,
		"total": len(list),
	})
}

// ---------- 单个工具 ----------

func (h *ToolHandler) GetTool(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的工具 ID")
		return
	}

	var tool models.Tool
	if err := h.DB.First(&tool, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "工具不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	resp, err := h.toToolResp(&tool)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}
	util.Success(c, util.Response{
		"tool": resp,
	})
}

// ---------- 修改工具 ----------

// UpdateTool 只有发布者本人可以修改
func (h *ToolHandler) UpdateTool(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的工具 ID")
		return
	}

	var tool models.Tool
	if err := h.DB.First(&tool, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "工具不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	if tool.OwnerID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeAuth, "只能修改自己发布的工具")
		return
	}

	var req updateToolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	tool.Name = strings.TrimSpace(req.Name)
	tool.Description = strings.TrimSpace(req.Description)
	if err := h.DB.Save(&tool).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新失败")
		return
	}

	resp, err := h.toToolResp(&tool)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}
	util.Success(c, util.Response{
		"message": "更新成功",
		"tool":    resp,
	})
}

// ---------- 下架工具 ----------

// DeleteTool 只有发布者本人可以删除，借出中的工具不能删
func (h *ToolHandler) DeleteTool(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的工具 ID")
		return
	}

	var tool models.Tool
	if err := h.DB.First(&tool, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "工具不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	if tool.OwnerID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeAuth, "只能删除自己发布的工具")
		return
	}

	var open int64
	if err := h.DB.Model(&models.Borrowing{}).
		Where("tool_id = ? AND returned_at IS NULL", tool.ID).
		Count(&open).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}
	if open > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "工具借出中，归还后才能删除")
		return
	}

	if err := h.DB.Delete(&models.Tool{}, tool.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "删除失败")
		return
	}
	util.Success(c, util.Response{
		"message": "删除成功",
	})
}
