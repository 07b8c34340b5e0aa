// Package modelsはToDoリストとToDoアイテムを定義します。
package models

import (
	"slices"
	"time"
)

// Urgency はリストの緊急度カテゴリです。
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyTimely    Urgency = "timely"
	UrgencyFlexible  Urgency = "flexible"
)

// 既知のカテゴリより後ろに並べるためのランク
const unknownUrgencyRank = 99

// Urgencies は表示順に並べた全カテゴリです。
var Urgencies = []Urgency{UrgencyImmediate, UrgencyTimely, UrgencyFlexible}

// Rank は並び替え用のキーを返します (immediate=1, timely=2, flexible=3, それ以外=99)。
func (u Urgency) Rank() int {
	switch u {
	case UrgencyImmediate:
		return 1
	case UrgencyTimely:
		return 2
	case UrgencyFlexible:
		return 3
	default:
		return unknownUrgencyRank
	}
}

// Valid は3つのカテゴリのいずれかであればtrueを返します。
func (u Urgency) Valid() bool {
	return u.Rank() != unknownUrgencyRank
}

// DefaultListTitle はタイトル未入力で作成されたリストの名前です。
const DefaultListTitle = "Untitled List"

// DefaultDueDays は期日未指定時に作成日へ加算する日数です。
const DefaultDueDays = 14

// DateLayout はフォームとJSONで使う日付の書式です。
const DateLayout = "2006-01-02"

// ToDoList はユーザーが所有するタスクの集まりです。
type ToDoList struct {
	ID          int         `json:"id"`
	UserID      int         `json:"user_id"`
	Title       string      `json:"title"`
	Urgency     Urgency     `json:"urgency"`
	DateCreated time.Time   `json:"date_created"`
	DueDate     time.Time   `json:"due_date"`
	Items       []*ToDoItem `json:"items,omitempty"` // FindByListIDで明示的に読み込む
}

// ToDoItem はリスト内の1タスクです。
// UserID は親リストの所有者のコピーで、JOINなしで認可チェックするために持ちます。
// 常に親リストの UserID と一致します (スキーマの複合外部キーでも保証)。
type ToDoItem struct {
	ID        int    `json:"id"`
	ListID    int    `json:"list_id"`
	UserID    int    `json:"user_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// SortByUrgency は緊急度ランクで安定ソートします。同ランク内は元の順序を保ちます。
func SortByUrgency(lists []*ToDoList) {
	slices.SortStableFunc(lists, func(a, b *ToDoList) int {
		return a.Urgency.Rank() - b.Urgency.Rank()
	})
}

// DateOnly は時刻を切り捨ててUTCの日付にします。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListCreateRequest は新規リスト作成フォームです。
type ListCreateRequest struct {
	Title   string   `form:"title" json:"title"`
	Urgency string   `form:"urgency" json:"urgency"`
	DueDate string   `form:"due_date" json:"due_date"`
	Items   []string `form:"items" json:"items"`
}

// ListUpdateRequest は既存リストの編集内容です。
// ItemTexts はフォームに含まれていたアイテムだけを持ちます (空文字も上書き対象)。
// Completed に無いアイテムは未完了として扱われます。
type ListUpdateRequest struct {
	Title     string
	Urgency   string
	DueDate   string
	ItemTexts map[int]string
	Completed map[int]bool
	NewItems  []string
}
