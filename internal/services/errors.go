package services

import "errors"

// ValidationError はユーザーが入力を直して再送信すれば解決するエラーです。
// Message はそのまま画面に表示できます。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// サインアップ時のバリデーションエラー
var (
	ErrInvalidEmail     = &ValidationError{Field: "email", Message: "Please enter a valid email address."}
	ErrWeakPassword     = &ValidationError{Field: "password", Message: "Password must be longer than 8 characters and contain an uppercase letter, a lowercase letter, a number and a symbol."}
	ErrPasswordMismatch = &ValidationError{Field: "confirm_password", Message: "Passwords do not match."}
	ErrEmailTaken       = &ValidationError{Field: "email", Message: "An account with that email already exists."}
)

var (
	// ErrInvalidCredentials はメールとパスワードのどちらが間違っていたかを区別しません。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized はセッションが無いか、リソースの所有者ではない場合のエラーです。
	ErrUnauthorized = errors.New("unauthorized")
)
