package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用
)

// local@domain.tld 形式。@の前は英数字・ドット・ハイフン、ドメインは英数字とドット。
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.]+\.\w+$`)

// PasswordSymbols は記号として数える文字の集合です。
const PasswordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|~`"

// minPasswordLength より長いパスワードだけを受け付けます。
const minPasswordLength = 8

// ValidEmail はメールアドレスの形式を確認します。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// StrongPassword は長さが8文字を超え、大文字・小文字・数字・記号をそれぞれ1文字以上含むかを確認します。
func StrongPassword(password string) bool {
	if utf8.RuneCountInString(password) <= minPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。ソルトは毎回異なります。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
