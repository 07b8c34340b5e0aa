package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/models"
	"go-todo-lists/testutil"
)

func TestDashboard_SortedByUrgency(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	testutil.CreateTestList(t, svc, 1, "later", models.UrgencyFlexible)
	testutil.CreateTestList(t, svc, 1, "now", models.UrgencyImmediate)
	testutil.CreateTestList(t, svc, 1, "soon", models.UrgencyTimely)
	cookie := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)

	resp := testutil.Get(t, r, "/member/1", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Lists []models.ToDoList `json:"lists"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Lists, 3)
	assert.Equal(t, "now", body.Lists[0].Title)
	assert.Equal(t, "soon", body.Lists[1].Title)
	assert.Equal(t, "later", body.Lists[2].Title)
}

func TestDashboard_RequiresMatchingSession(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)

	resp := testutil.Get(t, r, "/member/1", nil)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))

	cookie := testutil.LoginAndGetCookie(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	resp = testutil.Get(t, r, "/member/1", cookie)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))

	page := testutil.Get(t, r, "/", testutil.SessionCookie(resp))
	view := decodeView(t, page.Body.Bytes())
	require.NotEmpty(t, view.Flashes)
	assert.Equal(t, "warning", view.Flashes[len(view.Flashes)-1].Category)
}

func TestNewTodo_Create(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	cookie := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)

	resp := testutil.Get(t, r, "/new_todo", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "new_todo", decodeView(t, resp.Body.Bytes()).Page)

	resp = testutil.PostForm(t, r, "/new_todo", url.Values{
		"title": {"Packing"},
		"items": {"passport", "", "charger"},
	}, cookie)
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/member/1", resp.Header().Get("Location"))

	lists, err := svc.ListsForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Packing", lists[0].Title)
	assert.Equal(t, models.UrgencyFlexible, lists[0].Urgency)
	assert.Equal(t,
		models.DateOnly(time.Now()).AddDate(0, 0, models.DefaultDueDays).Format(models.DateLayout),
		lists[0].DueDate.Format(models.DateLayout))

	list, err := svc.GetList(context.Background(), lists[0].ID, 1)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	// 省略した緊急度と期日は警告として表示される
	page := testutil.Get(t, r, "/member/1", testutil.SessionCookie(resp))
	view := decodeView(t, page.Body.Bytes())
	var warnings int
	for _, f := range view.Flashes {
		if f.Category == "warning" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestNewTodo_RequiresLogin(t *testing.T) {
	_, r, _, _ := testutil.SetupTestDB(t)

	resp := testutil.PostForm(t, r, "/new_todo", url.Values{"title": {"x"}}, nil)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
}

func TestShowTodo(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Reading", models.UrgencyTimely, "novel")
	cookie := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)

	resp := testutil.Get(t, r, fmt.Sprintf("/1/old_todo/%d", list.ID), cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Page string          `json:"page"`
		List models.ToDoList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "old_todo", body.Page)
	assert.Equal(t, "Reading", body.List.Title)
	require.Len(t, body.List.Items, 1)
	assert.Equal(t, "novel", body.List.Items[0].Text)

	resp = testutil.Get(t, r, "/1/old_todo/999", cookie)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestShowTodo_OtherUsersList(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Mine", models.UrgencyTimely)
	cookie := testutil.LoginAndGetCookie(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)

	for _, path := range []string{
		fmt.Sprintf("/1/old_todo/%d", list.ID), // 他人のURL
		fmt.Sprintf("/2/old_todo/%d", list.ID), // 自分のURLで他人のリスト
	} {
		resp := testutil.Get(t, r, path, cookie)
		assert.Equal(t, http.StatusFound, resp.Code, path)
		assert.Equal(t, "/login", resp.Header().Get("Location"), path)
	}
}

func TestUpdateTodo(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Garden", models.UrgencyFlexible, "weed", "water")
	weed, water := list.Items[0].ID, list.Items[1].ID
	cookie := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	path := fmt.Sprintf("/1/old_todo/%d", list.ID)

	resp := testutil.PostForm(t, r, path, url.Values{
		"title":                            {"Garden chores"},
		"urgency":                          {"immediate"},
		"due_date":                         {"2030-05-01"},
		fmt.Sprintf("item_%d", weed):       {"pull weeds"},
		fmt.Sprintf("completed_%d", water): {"on"},
		"items":                            {"mow"},
	}, cookie)
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, path, resp.Header().Get("Location"))

	stored, err := svc.GetList(context.Background(), list.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Garden chores", stored.Title)
	assert.Equal(t, models.UrgencyImmediate, stored.Urgency)
	assert.Equal(t, "2030-05-01", stored.DueDate.Format(models.DateLayout))
	require.Len(t, stored.Items, 3)
	assert.Equal(t, "pull weeds", stored.Items[0].Text)
	assert.False(t, stored.Items[0].Completed)
	assert.Equal(t, "water", stored.Items[1].Text)
	assert.True(t, stored.Items[1].Completed)
	assert.Equal(t, "mow", stored.Items[2].Text)

	// 完了フラグを送り直さないと未完了に戻る
	resp = testutil.PostForm(t, r, path, url.Values{}, cookie)
	require.Equal(t, http.StatusFound, resp.Code)
	stored, err = svc.GetList(context.Background(), list.ID, 1)
	require.NoError(t, err)
	assert.False(t, stored.Items[1].Completed)
	assert.Equal(t, "Garden chores", stored.Title, "blank fields leave the list unchanged")
}

func TestUpdateTodo_OtherUserCannotModify(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Untouchable", models.UrgencyTimely, "item")
	cookie := testutil.LoginAndGetCookie(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)

	resp := testutil.PostForm(t, r, fmt.Sprintf("/2/old_todo/%d", list.ID), url.Values{
		"title": {"Mine now"},
		"items": {"sneaky"},
	}, cookie)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))

	stored, err := svc.GetList(context.Background(), list.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Untouchable", stored.Title)
	assert.Len(t, stored.Items, 1)
}

func TestDeleteItem(t *testing.T) {
	_, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Shopping", models.UrgencyImmediate, "bread", "jam")
	owner := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	other := testutil.LoginAndGetCookie(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	path := fmt.Sprintf("/delete_item/%d", list.Items[0].ID)

	resp := testutil.PostForm(t, r, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Unauthorized", resp.Body.String())

	resp = testutil.PostForm(t, r, path, nil, other)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Unauthorized", resp.Body.String())

	resp = testutil.PostForm(t, r, path, nil, owner)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())

	resp = testutil.PostForm(t, r, path, nil, owner)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	stored, err := svc.GetList(context.Background(), list.ID, 1)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "jam", stored.Items[0].Text)
}

func TestDeleteList(t *testing.T) {
	db, r, svc, _ := testutil.SetupTestDB(t)
	list := testutil.CreateTestList(t, svc, 1, "Old", models.UrgencyFlexible, "x", "y")
	owner := testutil.LoginAndGetCookie(t, r, testutil.NormalUserEmail, testutil.NormalUserPassword)
	other := testutil.LoginAndGetCookie(t, r, testutil.OtherUserEmail, testutil.OtherUserPassword)
	path := fmt.Sprintf("/delete_list/%d", list.ID)

	resp := testutil.PostForm(t, r, path, nil, other)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = testutil.PostForm(t, r, path, nil, owner)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM todo_items WHERE list_id = ?", list.ID).Scan(&n))
	assert.Zero(t, n)

	resp = testutil.PostForm(t, r, "/delete_list/abc", nil, owner)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
