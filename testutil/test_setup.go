// Package testutil はテスト用のデータベースとルーターを用意します。
package testutil

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/database"
	"go-todo-lists/internal/models"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/routes"
	"go-todo-lists/internal/services"
	"go-todo-lists/internal/session"
)

// テストユーザーの認証情報
const (
	NormalUserEmail    = "normal_user@example.com"
	NormalUserPassword = "Password#123"
	OtherUserEmail     = "other@example.com"
	OtherUserPassword  = "Another#456"

	TestSecretKey = "test_secret_key"
)

// SetupTestDB はテスト用のデータベース接続を確立し、テーブルを作成し、テストデータを投入します。
// デフォルトはインメモリのSQLiteです。TEST_DB_DRIVER=mysql と TEST_DB_DSN でMySQLを使えます。
// normal_user (ID 1) と other (ID 2) が作成されます。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *services.TodoService, *repositories.UserRepository) {
	t.Helper()
	// .envは任意
	_ = godotenv.Load("../../.env")

	ctx := context.Background()
	driver := os.Getenv("TEST_DB_DRIVER")
	dsn := os.Getenv("TEST_DB_DSN")
	if driver == "" {
		driver = database.DriverSQLite
	}
	if driver == database.DriverSQLite {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := database.Open(ctx, driver, dsn)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	if driver == database.DriverMySQL {
		resetMySQL(t, db.DB)
	}
	require.NoError(t, db.Migrate(ctx), "Failed to migrate test database")

	// テストユーザーの挿入
	userRepo := repositories.NewUserRepository(db.DB)
	CreateTestUser(t, userRepo, "Normal", "User", NormalUserEmail, NormalUserPassword)
	CreateTestUser(t, userRepo, "Other", "User", OtherUserEmail, OtherUserPassword)

	router, todoService := SetupTestRouter(t, db.DB)
	return db.DB, router, todoService, userRepo
}

// resetMySQL は前回のテストのテーブルを削除します。
func resetMySQL(t *testing.T, db *sql.DB) {
	t.Helper()
	// 外部キー制約があるため一時的にチェックを無効化する
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=0"); err != nil {
		log.Printf("Failed to disable foreign key checks: %v", err)
	}
	for _, table := range []string{"todo_items", "todo_lists", "users", "schema_migrations"} {
		_, err := db.Exec("DROP TABLE IF EXISTS " + table)
		require.NoError(t, err, "Failed to drop %s", table)
	}
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=1"); err != nil {
		log.Printf("Failed to enable foreign key checks: %v", err)
	}
}

// SetupTestRouter は本番と同じルーティングをテスト用の鍵で組み立てます。
func SetupTestRouter(t *testing.T, db *sql.DB) (*gin.Engine, *services.TodoService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(TestSecretKey, time.Hour, false)
	deps := routes.NewDeps(db, sessions, []string{"http://localhost:3000"})
	return routes.SetupRouter(deps), deps.TodoService
}

// CreateTestUser はパスワードをハッシュ化してユーザーを作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, firstName, lastName, email, password string) *models.User {
	t.Helper()
	hashedPassword, err := services.HashPassword(password)
	require.NoError(t, err)

	createdUser, err := userRepo.Create(context.Background(), &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotZero(t, createdUser.ID)
	return createdUser
}

// CreateTestList はサービス経由でリストを作成します。
func CreateTestList(t *testing.T, todoService *services.TodoService, ownerID int, title string, urgency models.Urgency, items ...string) *models.ToDoList {
	t.Helper()
	list, _, err := todoService.CreateList(context.Background(), ownerID, models.ListCreateRequest{
		Title:   title,
		Urgency: string(urgency),
		DueDate: time.Now().AddDate(0, 0, 7).Format(models.DateLayout),
		Items:   items,
	})
	require.NoError(t, err)
	return list
}

// PostForm はフォームをPOSTします。cookie が nil ならセッションなしです。
func PostForm(t *testing.T, router *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// Get はGETリクエストを送ります。
func Get(t *testing.T, router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// SessionCookie はレスポンスが設定したセッションCookieを返します。
func SessionCookie(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// LoginAndGetCookie はログインしてセッションCookieを返します。
func LoginAndGetCookie(t *testing.T, router *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	resp := PostForm(t, router, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusFound, resp.Code, "ログインに失敗しました: %s", resp.Body.String())
	cookie := SessionCookie(resp)
	require.NotNil(t, cookie, "session cookie not set")
	return cookie
}
