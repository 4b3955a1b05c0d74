package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexHTML []byte

// PageHandler 静态页面处理器
type PageHandler struct{}

// NewPageHandler 创建静态页面处理器
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index 返回内嵌的交互页面
// @Summary 交互页面
// @Description 返回内嵌的摘要演示页面
// @Tags System
// @Produce html
// @Success 200 {string} string
// @Router / [get]
func (h *PageHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
