// Package session はブラウザセッションにログイン中のユーザーとフラッシュメッセージを保持します。
// セッションは署名付きJWTとしてCookieに保存され、サーバー側には状態を持ちません。
package session

import (
	"slices"
	"time"
)

// フラッシュメッセージのカテゴリ
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash は次の画面表示で一度だけ出すメッセージです。
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session は1リクエスト分のセッション内容です。
// Middleware がリクエストごとに Permanent を false に戻すため、Cookieはブラウザを閉じると消えます。
type Session struct {
	UserID    int
	FirstName string
	LastName  string
	Flashes   []Flash
	Permanent bool

	modified   bool
	fromCookie bool
	issuedAt   time.Time
}

// MaxFlashes を超えたフラッシュは古いものから捨てます (Cookieは4KBまで)。
const MaxFlashes = 5

// CurrentUser はログイン中のユーザーIDを返します。
func (s *Session) CurrentUser() (int, bool) {
	if s.UserID == 0 {
		return 0, false
	}
	return s.UserID, true
}

// Establish はログインしたユーザーをセッションに記録します。
func (s *Session) Establish(userID int, firstName, lastName string) {
	s.UserID = userID
	s.FirstName = firstName
	s.LastName = lastName
	s.modified = true
}

// Clear はユーザー情報とフラッシュをすべて消します。
func (s *Session) Clear() {
	s.UserID = 0
	s.FirstName = ""
	s.LastName = ""
	s.Flashes = nil
	s.modified = true
}

// AddFlash はフラッシュメッセージを追加します。
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	if len(s.Flashes) > MaxFlashes {
		s.Flashes = slices.Clone(s.Flashes[len(s.Flashes)-MaxFlashes:])
	}
	s.modified = true
}

// PopFlashes は溜まっているフラッシュを返して空にします。
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return []Flash{}
	}
	flashes := slices.Clone(s.Flashes)
	s.Flashes = nil
	s.modified = true
	return flashes
}

// Empty はCookieに保存する内容が無い場合にtrueを返します。
func (s *Session) Empty() bool {
	return s.UserID == 0 && len(s.Flashes) == 0
}

// Modified は読み込み後に変更があったかを返します。
func (s *Session) Modified() bool {
	return s.modified
}
