package models

// User はユーザーのデータベース構造体を表します。
// 作成後に変更されることはありません。
type User struct {
	ID           int    `json:"id,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // JSONに出さない
}

// Summary はセッションと画面表示に必要な情報だけを返します。
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

// UserSummary はログイン成功時に返すユーザー情報です。
type UserSummary struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName は画面表示用の氏名です。
func (s *UserSummary) DisplayName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// UserRegisterRequest はサインアップフォームです。
// bindingタグ: Ginでのリクエストバリデーション用 (形式チェックはサービス層で行う)
type UserRegisterRequest struct {
	FirstName       string `form:"first_name" json:"first_name" binding:"required"`
	LastName        string `form:"last_name" json:"last_name" binding:"required"`
	Email           string `form:"email" json:"email" binding:"required"`
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
}

// UserLoginRequest はログインフォームです。
type UserLoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
