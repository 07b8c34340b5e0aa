// Package handlers はHTTPリクエストを処理し、画面用のビューモデルをJSONで返します。
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/session"
)

// ビュー共通のレスポンスを組み立てます。
// フラッシュはここで取り出され、セッションCookieも書き戻されます。
func render(c *gin.Context, sessions *session.Manager, status int, page string, data gin.H) {
	s := session.FromContext(c)
	body := gin.H{
		"page":    page,
		"flashes": s.PopFlashes(),
	}
	if userID, ok := s.CurrentUser(); ok {
		body["current_user"] = gin.H{
			"id":         userID,
			"first_name": s.FirstName,
			"last_name":  s.LastName,
		}
	}
	for k, v := range data {
		body[k] = v
	}

	if err := sessions.Save(c, s); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	c.JSON(status, body)
}

// redirect はセッションを保存してから302で遷移します。
func redirect(c *gin.Context, sessions *session.Manager, location string) {
	if err := sessions.Save(c, session.FromContext(c)); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
	c.Redirect(http.StatusFound, location)
}

// flashAndRedirect はフラッシュを追加して遷移します。
func flashAndRedirect(c *gin.Context, sessions *session.Manager, category, message, location string) {
	session.FromContext(c).AddFlash(category, message)
	redirect(c, sessions, location)
}

func serverError(c *gin.Context, err error) {
	log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
}

func dashboardPath(userID int) string {
	return fmt.Sprintf("/member/%d", userID)
}

func listPath(userID, listID int) string {
	return fmt.Sprintf("/%d/old_todo/%d", userID, listID)
}

// paramID はパスパラメータを正の整数として読みます。
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
