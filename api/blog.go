package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/tourbooking/internal/content"
	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	content content.ContentUseCase
}

func NewBlogHandler(content content.ContentUseCase) *BlogHandler {
	return &BlogHandler{content: content}
}

func (h *BlogHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *BlogHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.content.Posts(c.Request.Context()))
}

func (h *BlogHandler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	post, err := h.content.Post(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
