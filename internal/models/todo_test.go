package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUrgencyRank(t *testing.T) {
	assert.Equal(t, 1, UrgencyImmediate.Rank())
	assert.Equal(t, 2, UrgencyTimely.Rank())
	assert.Equal(t, 3, UrgencyFlexible.Rank())
	assert.Equal(t, 99, Urgency("someday").Rank())
	assert.Equal(t, 99, Urgency("").Rank())

	assert.True(t, UrgencyTimely.Valid())
	assert.False(t, Urgency("Immediate").Valid(), "categories are case-sensitive")
}

func TestSortByUrgency(t *testing.T) {
	lists := []*ToDoList{
		{ID: 1, Urgency: UrgencyFlexible},
		{ID: 2, Urgency: "someday"},
		{ID: 3, Urgency: UrgencyImmediate},
		{ID: 4, Urgency: UrgencyTimely},
		{ID: 5, Urgency: UrgencyImmediate},
	}
	SortByUrgency(lists)

	var ids []int
	for _, l := range lists {
		ids = append(ids, l.ID)
	}
	// 同じ緊急度では元の順序を保ち、未知の値は最後
	assert.Equal(t, []int{3, 5, 4, 1, 2}, ids)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, time.May, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.May, 9, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestUserSummaryDisplayName(t *testing.T) {
	u := &User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	assert.Equal(t, "Ada Lovelace", u.Summary().DisplayName())
	assert.Equal(t, "Ada", (&UserSummary{FirstName: "Ada"}).DisplayName())
}
