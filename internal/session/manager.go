package session

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName はセッションCookieの名前です。
const CookieName = "session"

const contextKey = "session"

// Claims はセッションCookieに署名して保存する内容です。
type Claims struct {
	UserID    int     `json:"user_id,omitempty"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Flashes   []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager はセッションCookieの読み書きを行います。
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager は新しいManagerを作成します。
// maxAge は署名の有効期限で、Cookie自体はブラウザセッション限りです。
func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), maxAge: maxAge, secure: secure, now: time.Now}
}

// Encode はセッションを署名付きトークンにします。
func (m *Manager) Encode(s *Session) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:    s.UserID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Flashes:   s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// Decode はトークンを検証してセッションに戻します。
func (m *Manager) Decode(tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	s := &Session{
		UserID:     claims.UserID,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		Flashes:    claims.Flashes,
		fromCookie: true,
	}
	if claims.IssuedAt != nil {
		s.issuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// Load はリクエストのCookieからセッションを読み込みます。
// Cookieが無いか検証に失敗した場合は空のセッションを返します。
func (m *Manager) Load(c *gin.Context) *Session {
	tokenString, err := c.Cookie(CookieName)
	if err != nil || tokenString == "" {
		return &Session{}
	}
	s, err := m.Decode(tokenString)
	if err != nil {
		log.Printf("Discarding invalid session cookie: %v", err)
		// 壊れたCookieは次の Save で削除する
		return &Session{fromCookie: true, modified: true}
	}
	return s
}

// Save は変更されたセッションをCookieに書き戻します。レスポンスを書く前に呼び出してください。
func (m *Manager) Save(c *gin.Context, s *Session) error {
	if !s.modified {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	if s.Empty() {
		if s.fromCookie {
			c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
		}
		s.modified = false
		return nil
	}

	tokenString, err := m.Encode(s)
	if err != nil {
		return err
	}
	maxAge := 0
	if s.Permanent {
		maxAge = int(m.maxAge.Seconds())
	}
	c.SetCookie(CookieName, tokenString, maxAge, "/", "", m.secure, true)
	s.modified = false
	s.fromCookie = true
	s.issuedAt = m.now()
	return nil
}

// Middleware はセッションを読み込んでコンテキストに設定します。
// Permanent は毎回 false に戻され、永続Cookieは発行されません。
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c)
		s.Permanent = false
		if m.needsRefresh(s) {
			// 次の Save で有効期限を延長したトークンを発行する
			s.modified = true
		}
		c.Set(contextKey, s)
		c.Next()
	}
}

// needsRefresh はログイン中のトークンが有効期間の半分を過ぎていればtrueを返します。
func (m *Manager) needsRefresh(s *Session) bool {
	if _, ok := s.CurrentUser(); !ok || s.issuedAt.IsZero() {
		return false
	}
	return m.now().Sub(s.issuedAt) > m.maxAge/2
}

// FromContext はMiddlewareが設定したセッションを返します。
// Middlewareを通っていない場合は空のセッションを返します。
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := &Session{}
	c.Set(contextKey, s)
	return s
}
