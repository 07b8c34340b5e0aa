// Package routesはroutingを行います。
package routes

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-lists/internal/handlers"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/services"
	"go-todo-lists/internal/session"
)

// Deps はルーターが必要とする依存関係です。起動時に cmd/api で組み立てます。
type Deps struct {
	DB           *sql.DB
	Sessions     *session.Manager
	UserService  *services.UserService
	TodoService  *services.TodoService
	AllowOrigins []string
}

// NewDeps はデータベース接続からリポジトリとサービスを組み立てます。
func NewDeps(db *sql.DB, sessions *session.Manager, allowOrigins []string) *Deps {
	userRepo := repositories.NewUserRepository(db)
	todoService := services.NewTodoService(db, repositories.NewListRepository(), repositories.NewItemRepository())
	return &Deps{
		DB:           db,
		Sessions:     sessions,
		UserService:  services.NewUserService(userRepo),
		TodoService:  todoService,
		AllowOrigins: allowOrigins,
	}
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps *Deps) *gin.Engine {
	r := gin.Default()

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = true
	r.Use(cors.New(config))
	r.Use(deps.Sessions.Middleware())

	// ハンドラー
	pageHandler := handlers.NewPageHandler(deps.DB, deps.Sessions)
	userHandler := handlers.NewUserHandler(deps.UserService, deps.Sessions)
	todoHandler := handlers.NewTodoHandler(deps.TodoService, deps.Sessions)

	// ルーティング
	r.GET("/", pageHandler.HomeHandler)
	r.GET("/about", pageHandler.AboutHandler)
	r.GET("/healthz", pageHandler.HealthHandler)

	r.GET("/signup", userHandler.SignupPageHandler)
	r.POST("/signup", userHandler.SignupHandler)
	r.GET("/login", userHandler.LoginPageHandler)
	r.POST("/login", userHandler.LoginHandler)
	r.GET("/logout", userHandler.LogoutHandler)
	r.POST("/logout", userHandler.LogoutHandler)

	authorized := r.Group("/")
	authorized.Use(RequireLogin(deps.Sessions))
	{
		authorized.GET("/member/:user_id", todoHandler.DashboardHandler)
		authorized.POST("/member/:user_id", todoHandler.DashboardHandler)
		authorized.GET("/new_todo", todoHandler.NewTodoPageHandler)
		authorized.POST("/new_todo", todoHandler.CreateTodoHandler)
		authorized.GET("/:user_id/old_todo/:todo_id", todoHandler.ShowTodoHandler)
		authorized.POST("/:user_id/old_todo/:todo_id", todoHandler.UpdateTodoHandler)
	}

	api := r.Group("/")
	api.Use(RequireLoginAPI(deps.Sessions))
	{
		api.POST("/delete_item/:item_id", todoHandler.DeleteItemHandler)
		api.POST("/delete_list/:list_id", todoHandler.DeleteListHandler)
	}

	return r
}
