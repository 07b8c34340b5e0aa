package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/models"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/services"
	"go-todo-lists/internal/session"
)

const unauthorizedMessage = "You are not authorized to view that page. Please log in."

// TodoHandler はリストとアイテムのハンドラーを管理します。
// ログイン中のユーザーIDは RequireLogin ミドルウェアが "user_id" に設定します。
type TodoHandler struct {
	todoService *services.TodoService
	sessions    *session.Manager
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, sessions *session.Manager) *TodoHandler {
	return &TodoHandler{todoService: todoService, sessions: sessions}
}

// DashboardHandler はユーザーのリストを緊急度順に表示します。
func (h *TodoHandler) DashboardHandler(c *gin.Context) {
	userID := c.GetInt("user_id")
	pathUserID, ok := paramID(c, "user_id")
	if !ok || pathUserID != userID {
		flashAndRedirect(c, h.sessions, session.FlashWarning, unauthorizedMessage, "/login")
		return
	}

	lists, err := h.todoService.ListsForUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, h.sessions, http.StatusOK, "dashboard", gin.H{"lists": lists})
}

// NewTodoPageHandler は新規リストフォームの初期値を返します。
func (h *TodoHandler) NewTodoPageHandler(c *gin.Context) {
	render(c, h.sessions, http.StatusOK, "new_todo", gin.H{
		"urgencies":        models.Urgencies,
		"default_urgency":  models.UrgencyFlexible,
		"default_due_days": models.DefaultDueDays,
	})
}

// CreateTodoHandler は新しいリストを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.ListCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		flashAndRedirect(c, h.sessions, session.FlashDanger, "Invalid form submission.", "/new_todo")
		return
	}

	list, warnings, err := h.todoService.CreateList(c.Request.Context(), userID, req)
	if err != nil {
		serverError(c, err)
		return
	}

	s := session.FromContext(c)
	for _, w := range warnings {
		s.AddFlash(session.FlashWarning, w)
	}
	s.AddFlash(session.FlashSuccess, "Created \""+list.Title+"\".")
	redirect(c, h.sessions, dashboardPath(userID))
}

// ShowTodoHandler はリストをアイテム付きで表示します。
func (h *TodoHandler) ShowTodoHandler(c *gin.Context) {
	userID := c.GetInt("user_id")
	listID, ok := h.pageListID(c, userID)
	if !ok {
		return
	}

	list, err := h.todoService.GetList(c.Request.Context(), listID, userID)
	if err != nil {
		h.pageError(c, err)
		return
	}
	render(c, h.sessions, http.StatusOK, "old_todo", gin.H{
		"list":      list,
		"urgencies": models.Urgencies,
	})
}

// UpdateTodoHandler はフォームの内容でリストを更新します。
// item_<id> はアイテムの新しいテキスト、completed_<id> は完了フラグです。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	userID := c.GetInt("user_id")
	listID, ok := h.pageListID(c, userID)
	if !ok {
		return
	}

	req := models.ListUpdateRequest{
		Title:     c.PostForm("title"),
		Urgency:   c.PostForm("urgency"),
		DueDate:   c.PostForm("due_date"),
		ItemTexts: map[int]string{},
		Completed: map[int]bool{},
		NewItems:  c.PostFormArray("items"),
	}
	// c.PostForm の呼び出しで PostForm は解析済み
	for key, values := range c.Request.PostForm {
		if len(values) == 0 {
			continue
		}
		if id, ok := formItemID(key, "item_"); ok {
			req.ItemTexts[id] = values[0]
		} else if id, ok := formItemID(key, "completed_"); ok {
			req.Completed[id] = true
		}
	}

	warnings, err := h.todoService.UpdateList(c.Request.Context(), listID, userID, req)
	if err != nil {
		h.pageError(c, err)
		return
	}

	s := session.FromContext(c)
	for _, w := range warnings {
		s.AddFlash(session.FlashWarning, w)
	}
	s.AddFlash(session.FlashSuccess, "List updated.")
	redirect(c, h.sessions, listPath(userID, listID))
}

// DeleteItemHandler はアイテムを1件削除します。レスポンスはプレーンテキストです。
func (h *TodoHandler) DeleteItemHandler(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	err := h.todoService.DeleteItem(c.Request.Context(), itemID, c.GetInt("user_id"))
	respondDelete(c, err)
}

// DeleteListHandler はリストとそのアイテムを削除します。
func (h *TodoHandler) DeleteListHandler(c *gin.Context) {
	listID, ok := paramID(c, "list_id")
	if !ok {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	err := h.todoService.DeleteList(c.Request.Context(), listID, c.GetInt("user_id"))
	respondDelete(c, err)
}

func respondDelete(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, services.ErrUnauthorized):
		c.String(http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, repositories.ErrItemNotFound), errors.Is(err, repositories.ErrListNotFound):
		c.String(http.StatusNotFound, "Not Found")
	default:
		log.Printf("Failed to delete on %s: %v", c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

// pageListID はURLのユーザーIDがログイン中のユーザーと一致するか確認し、リストIDを返します。
func (h *TodoHandler) pageListID(c *gin.Context, userID int) (int, bool) {
	pathUserID, ok := paramID(c, "user_id")
	if !ok || pathUserID != userID {
		flashAndRedirect(c, h.sessions, session.FlashWarning, unauthorizedMessage, "/login")
		return 0, false
	}
	listID, ok := paramID(c, "todo_id")
	if !ok {
		notFound(c)
		return 0, false
	}
	return listID, true
}

func (h *TodoHandler) pageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		flashAndRedirect(c, h.sessions, session.FlashWarning, unauthorizedMessage, "/login")
	case errors.Is(err, repositories.ErrListNotFound):
		notFound(c)
	default:
		serverError(c, err)
	}
}

func formItemID(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
	if err != nil {
		return 0, false
	}
	return id, true
}
