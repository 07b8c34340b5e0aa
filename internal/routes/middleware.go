package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/session"
)

// RequireLogin はログイン中のユーザーIDをコンテキストに設定するミドルウェアです。
// 未ログインの場合は警告を出してログイン画面へ遷移します。
func RequireLogin(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		userID, ok := s.CurrentUser()
		if !ok {
			s.AddFlash(session.FlashWarning, "Please log in to continue.")
			if err := sessions.Save(c, s); err != nil {
				log.Printf("Failed to save session: %v", err)
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// RequireLoginAPI はAJAXから呼ばれる削除エンドポイント用で、未ログインなら401を返します。
// ハンドラーはセッションを保存しないので、期限延長が必要ならここで保存します。
func RequireLoginAPI(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		userID, ok := s.CurrentUser()
		if !ok {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		if s.Modified() {
			if err := sessions.Save(c, s); err != nil {
				log.Printf("Failed to save session: %v", err)
			}
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
