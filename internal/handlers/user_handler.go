package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/models"
	"go-todo-lists/internal/services"
	"go-todo-lists/internal/session"
)

// UserHandler はサインアップ・ログイン・ログアウトを扱います。
type UserHandler struct {
	userService *services.UserService
	sessions    *session.Manager
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{userService: userService, sessions: sessions}
}

// SignupPageHandler はサインアップフォームを表示します。
func (h *UserHandler) SignupPageHandler(c *gin.Context) {
	if userID, ok := session.FromContext(c).CurrentUser(); ok {
		redirect(c, h.sessions, dashboardPath(userID))
		return
	}
	render(c, h.sessions, http.StatusOK, "signup", gin.H{
		"password_rules": "More than 8 characters with an uppercase letter, a lowercase letter, a number and a symbol.",
	})
}

// SignupHandler はユーザー登録を処理し、成功したらそのままログインさせます。
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		flashAndRedirect(c, h.sessions, session.FlashDanger, "Please fill in every field.", "/signup")
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			flashAndRedirect(c, h.sessions, session.FlashDanger, verr.Message, "/signup")
			return
		}
		serverError(c, err)
		return
	}

	s := session.FromContext(c)
	s.Establish(user.ID, user.FirstName, user.LastName)
	s.AddFlash(session.FlashSuccess, "Welcome, "+user.FirstName+"! Your account has been created.")
	redirect(c, h.sessions, dashboardPath(user.ID))
}

// LoginPageHandler はログインフォームを表示します。ログイン済みならダッシュボードへ遷移します。
func (h *UserHandler) LoginPageHandler(c *gin.Context) {
	if userID, ok := session.FromContext(c).CurrentUser(); ok {
		redirect(c, h.sessions, dashboardPath(userID))
		return
	}
	render(c, h.sessions, http.StatusOK, "login", nil)
}

// LoginHandler はユーザーログインを処理します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		flashAndRedirect(c, h.sessions, session.FlashDanger, "Please enter your email and password.", "/login")
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			flashAndRedirect(c, h.sessions, session.FlashDanger, "Invalid email or password.", "/login")
			return
		}
		serverError(c, err)
		return
	}

	s := session.FromContext(c)
	s.Establish(user.ID, user.FirstName, user.LastName)
	s.AddFlash(session.FlashSuccess, "Welcome back, "+user.DisplayName()+"!")
	log.Printf("User %d logged in", user.ID)
	redirect(c, h.sessions, dashboardPath(user.ID))
}

// LogoutHandler はセッションを破棄します。
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	s := session.FromContext(c)
	s.Clear()
	s.AddFlash(session.FlashInfo, "You have been logged out.")
	redirect(c, h.sessions, "/login")
}
