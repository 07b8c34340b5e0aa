package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/session"
)

// PageHandler は静的なページとヘルスチェックを扱います。
type PageHandler struct {
	db       *sql.DB
	sessions *session.Manager
}

// NewPageHandler は新しいPageHandlerを作成します。
func NewPageHandler(db *sql.DB, sessions *session.Manager) *PageHandler {
	return &PageHandler{db: db, sessions: sessions}
}

// HomeHandler はトップページです。
func (h *PageHandler) HomeHandler(c *gin.Context) {
	render(c, h.sessions, http.StatusOK, "home", nil)
}

// AboutHandler はアプリの説明ページです。
func (h *PageHandler) AboutHandler(c *gin.Context) {
	render(c, h.sessions, http.StatusOK, "about", gin.H{
		"description": "Organize your tasks into lists, mark how urgent each list is and track due dates.",
	})
}

// HealthHandler はデータベースへの疎通を確認します。
func (h *PageHandler) HealthHandler(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
}
