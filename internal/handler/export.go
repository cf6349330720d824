package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/amspokrm578/Tooling-application/internal/models"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 负责借用记录导出
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) loadBorrowings(c *gin.Context) ([]models.Borrowing, bool) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}

	var borrowings []models.Borrowing
	if err := h.DB.Preload("Tool").
		Where("borrower_id = ?", user.ID).
		Order("created_at DESC").
		Find(&borrowings).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "查询失败")
		return nil, false
	}
	return borrowings, true
}

func borrowingStatus(b *models.Borrowing) string {
	if b.ReturnedAt != nil {
		return "已归还"
	}
	return "借用中"
}

// ExportCSV 导出当前用户的借用记录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	borrowings, ok := h.loadBorrowings(c)
	if !ok {
		return
	}

	// 设置响应头
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"borrowings_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// 写入表头
	writer.Write([]string{"工具", "借用日期", "约定归还", "实际归还", "状态"})

	// 写入数据
	for i := range borrowings {
		b := &borrowings[i]

		returned := ""
		if b.ReturnedAt != nil {
			returned = b.ReturnedAt.Format("2006-01-02")
		}

		writer.Write([]string{
			b.Tool.Name,
			b.CreatedAt.Format("2006-01-02"),
			b.DueDate.Format("2006-01-02"),
			returned,
			borrowingStatus(b),
		})
	}
}

// ExportXLSX 导出当前用户的借用记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	borrowings, ok := h.loadBorrowings(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "借用记录"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	// 设置表头
	headers := []string{"工具", "借用日期", "约定归还", "实际归还", "状态"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	// 写入数据
	for idx := range borrowings {
		b := &borrowings[idx]
		row := idx + 2

		returned := ""
		if b.ReturnedAt != nil {
			returned = b.ReturnedAt.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.Tool.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), returned)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), borrowingStatus(b))
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"borrowings_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
	}
}
