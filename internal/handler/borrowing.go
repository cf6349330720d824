package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BorrowingHandler 负责借用/归还相关接口
type BorrowingHandler struct {
	DB *gorm.DB
}

func NewBorrowingHandler(db *gorm.DB) *BorrowingHandler {
	return &BorrowingHandler{DB: db}
}

// ---------- 请求/响应结构 ----------

type createBorrowingReq struct {
	ToolID  uint   `json:"tool_id" binding:"required"`
	DueDate string `json:"due_date" binding:"required"` // YYYY-MM-DD
}

type borrowingResp struct {
	ID         uint       `json:"id"`
	ToolID     uint       `json:"tool_id"`
	ToolName   string     `json:"tool_name"`
	BorrowerID uint       `json:"borrower_id"`
	DueDate    string     `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	BorrowedAt time.Time  `json:"borrowed_at"`
}

func toBorrowingResp(b *models.Borrowing) borrowingResp {
	return borrowingResp{
		ID:         b.ID,
		ToolID:     b.ToolID,
		ToolName:   b.Tool.Name,
		BorrowerID: b.BorrowerID,
		DueDate:    b.DueDate.Format("2006-01-02"),
		ReturnedAt: b.ReturnedAt,
		BorrowedAt: b.CreatedAt,
	}
}

// ---------- 借用工具 ----------

func (h *BorrowingHandler) CreateBorrowing(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	var req createBorrowingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	dueDate, err := util.ValidateDueDate(req.DueDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "归还日期格式不正确或早于今天")
		return
	}

	var tool models.Tool
	if err := h.DB.First(&tool, req.ToolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "工具不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	if tool.OwnerID == user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "不能借用自己的工具")
		return
	}

	// 已有未归还记录的工具不能再借。这里的查询只是为了尽早给出
	// 友好提示，真正挡住并发双借的是 borrowings 上的部分唯一索引。
	var open int64
	if err := h.DB.Model(&models.Borrowing{}).
		Where("tool_id = ? AND returned_at IS NULL", tool.ID).
		Count(&open).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}
	if open > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "工具已被借出")
		return
	}

	borrowing := models.Borrowing{
		ToolID:     tool.ID,
		BorrowerID: user.ID,
		DueDate:    dueDate,
	}
	if err := h.DB.Create(&borrowing).Error; err != nil {
		// 两个请求同时通过上面的检查时，后插入的会撞唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "工具已被借出")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "借用失败")
		return
	}
	borrowing.Tool = tool

	util.Created(c, util.Response{
		"message":   "借用成功",
		"borrowing": toBorrowingResp(&borrowing),
	})
}

// ---------- 借用记录列表 ----------

// ListBorrowings 列出当前用户相关的借用记录：
// 默认是自己借的；?role=owner 时是自己工具被借的。
func (h *BorrowingHandler) ListBorrowings(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	q := h.DB.Preload("Tool").Order("created_at DESC")
	if c.Query("role") == "owner" {
		q = q.Joins("JOIN tools ON tools.id = borrowings.tool_id").
			Where("tools.owner_id = ?", user.ID)
	} else {
		q = q.Where("borrower_id = ?", user.ID)
	}

	var borrowings []models.Borrowing
	if err := q.Find(&borrowings).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return
	}

	list := make([]borrowingResp, 0, len(borrowings))
	for i := range borrowings {
		list = append(list, toBorrowingResp(&borrowings[i]))
	}
	util.Success(c, util.Response{
		"borrowings": list,
		"total":      len(list),
	})
}

// ---------- 归还 ----------

// ReturnBorrowing 归还工具：填上 returned_at。只有借用人本人可以操作，
// 重复归还直接报错。
func (h *BorrowingHandler) ReturnBorrowing(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的借用记录 ID")
		return
	}

	var borrowing models.Borrowing
	if err := h.DB.Preload("Tool").First(&borrowing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "借用记录不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	if borrowing.BorrowerID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeAuth, "只能归还自己借用的工具")
		return
	}
	if borrowing.ReturnedAt != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "该记录已归还")
		return
	}

	now := time.Now()
	borrowing.ReturnedAt = &now
	if err := h.DB.Model(&borrowing).Update("returned_at", &now).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "归还失败")
		return
	}

	util.Success(c, util.Response{
		"message":   "归还成功",
		"borrowing": toBorrowingResp(&borrowing),
	})
}

// ---------- 删除记录 ----------

// DeleteBorrowing 删除一条借用记录（只允许借用人删除已归还的记录）
func (h *BorrowingHandler) DeleteBorrowing(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "无效的借用记录 ID")
		return
	}

	var borrowing models.Borrowing
	if err := h.DB.First(&borrowing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "借用记录不存在")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		}
		return
	}
	if borrowing.BorrowerID != user.ID {
		util.Error(c, http.StatusForbidden, util.CodeAuth, "只能删除自己的借用记录")
		return
	}
	if borrowing.ReturnedAt == nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "未归还的记录不能删除")
		return
	}

	if err := h.DB.Delete(&models.Borrowing{}, borrowing.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "删除失败")
		return
	}
	util.Success(c, util.Response{
		"message": "删除成功",
	})
}
