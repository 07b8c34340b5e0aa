package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go-todo-lists/internal/database"
	"go-todo-lists/internal/models"
)

// ListStore はリストの永続化を抽象化します。
type ListStore interface {
	Create(ctx context.Context, q database.Querier, l *models.ToDoList) error
	FindByID(ctx context.Context, q database.Querier, id int) (*models.ToDoList, error)
	FindByUserID(ctx context.Context, q database.Querier, userID int) ([]*models.ToDoList, error)
	UpdateFields(ctx context.Context, q database.Querier, id int, fields map[string]any) error
	Delete(ctx context.Context, q database.Querier, id int) error
}

// ItemStore はアイテムの永続化を抽象化します。
type ItemStore interface {
	Create(ctx context.Context, q database.Querier, item *models.ToDoItem) error
	FindByID(ctx context.Context, q database.Querier, id int) (*models.ToDoItem, error)
	FindByListID(ctx context.Context, q database.Querier, listID int) ([]*models.ToDoItem, error)
	Update(ctx context.Context, q database.Querier, item *models.ToDoItem) error
	Delete(ctx context.Context, q database.Querier, id int) error
}

// TodoService はリストとアイテムのビジネスロジックを扱います。
// 状態を変更する操作はすべて1トランザクションで実行されます。
type TodoService struct {
	db    *sql.DB
	lists ListStore
	items ItemStore
	now   func() time.Time
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(db *sql.DB, lists ListStore, items ItemStore) *TodoService {
	return &TodoService{db: db, lists: lists, items: items, now: time.Now}
}

// WithClock は作成日の基準となる時計を差し替えます。
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

// CreateList はリストと初期アイテムを作成します。
// 省略された緊急度と期日はデフォルト値になり、その旨を warnings で返します。
func (s *TodoService) CreateList(ctx context.Context, ownerID int, req models.ListCreateRequest) (*models.ToDoList, []string, error) {
	today := models.DateOnly(s.now())
	var warnings []string

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultListTitle
	}

	urgency := models.Urgency(strings.TrimSpace(req.Urgency))
	switch {
	case urgency == "":
		warnings = append(warnings, "No urgency selected, so the list was marked as flexible.")
		urgency = models.UrgencyFlexible
	case !urgency.Valid():
		warnings = append(warnings, fmt.Sprintf("Unknown urgency %q, so the list was marked as flexible.", urgency))
		urgency = models.UrgencyFlexible
	}

	dueDate, ok := parseDate(req.DueDate)
	if !ok {
		dueDate = today.AddDate(0, 0, models.DefaultDueDays)
		warnings = append(warnings, fmt.Sprintf("No valid due date given, so it was set to %s.", dueDate.Format(models.DateLayout)))
	}

	list := &models.ToDoList{
		UserID:      ownerID,
		Title:       title,
		Urgency:     urgency,
		DateCreated: today,
		DueDate:     dueDate,
	}
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.lists.Create(ctx, tx, list); err != nil {
			return err
		}
		items, err := s.appendItems(ctx, tx, list, req.Items)
		list.Items = items
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return list, warnings, nil
}

// UpdateList は送信されたフィールドだけをリストに反映します。
// 完了フラグは毎回フォームから再計算されるため、フラグが無いアイテムは未完了に戻ります。
func (s *TodoService) UpdateList(ctx context.Context, listID, requesterID int, req models.ListUpdateRequest) ([]string, error) {
	var warnings []string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		list, err := s.lists.FindByID(ctx, tx, listID)
		if err != nil {
			return err
		}
		if list.UserID != requesterID {
			return ErrUnauthorized
		}

		fields := map[string]any{}
		if title := strings.TrimSpace(req.Title); title != "" && title != list.Title {
			fields["title"] = title
		}
		if urgency := models.Urgency(strings.TrimSpace(req.Urgency)); urgency != "" && urgency != list.Urgency {
			if urgency.Valid() {
				fields["urgency"] = string(urgency)
			} else {
				warnings = append(warnings, fmt.Sprintf("Unknown urgency %q was ignored.", urgency))
			}
		}
		if raw := strings.TrimSpace(req.DueDate); raw != "" {
			dueDate, ok := parseDate(raw)
			switch {
			case !ok:
				warnings = append(warnings, fmt.Sprintf("Due date %q is not a valid date and was ignored.", raw))
			case !dueDate.Equal(list.DueDate):
				fields["due_date"] = dueDate
			}
		}
		if err := s.lists.UpdateFields(ctx, tx, list.ID, fields); err != nil {
			return err
		}

		items, err := s.items.FindByListID(ctx, tx, list.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			changed := false
			if text, ok := req.ItemTexts[item.ID]; ok {
				if text = strings.TrimSpace(text); text != item.Text {
					item.Text = text
					changed = true
				}
			}
			if completed := req.Completed[item.ID]; completed != item.Completed {
				item.Completed = completed
				changed = true
			}
			if changed {
				if err := s.items.Update(ctx, tx, item); err != nil {
					return err
				}
			}
		}

		_, err = s.appendItems(ctx, tx, list, req.NewItems)
		return err
	})
	if err != nil {
		return nil, err
	}
	return warnings, nil
}

// DeleteItem はアイテムを削除します。所有者以外は ErrUnauthorized です。
func (s *TodoService) DeleteItem(ctx context.Context, itemID, requesterID int) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		item, err := s.items.FindByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.UserID != requesterID {
			return ErrUnauthorized
		}
		return s.items.Delete(ctx, tx, item.ID)
	})
}

// DeleteList はリストとそのアイテムをすべて削除します。
func (s *TodoService) DeleteList(ctx context.Context, listID, requesterID int) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		list, err := s.lists.FindByID(ctx, tx, listID)
		if err != nil {
			return err
		}
		if list.UserID != requesterID {
			return ErrUnauthorized
		}
		return s.lists.Delete(ctx, tx, list.ID)
	})
}

// ListsForUser はユーザーのリストを緊急度順に返します。同じ緊急度なら作成順です。
func (s *TodoService) ListsForUser(ctx context.Context, userID int) ([]*models.ToDoList, error) {
	lists, err := s.lists.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	models.SortByUrgency(lists)
	return lists, nil
}

// GetList はリストをアイテム付きで取得し、認可チェックを行います。
func (s *TodoService) GetList(ctx context.Context, listID, requesterID int) (*models.ToDoList, error) {
	list, err := s.lists.FindByID(ctx, s.db, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != requesterID {
		return nil, ErrUnauthorized
	}
	items, err := s.items.FindByListID(ctx, s.db, list.ID)
	if err != nil {
		return nil, err
	}
	list.Items = items
	return list, nil
}

// appendItems は空でないテキストごとにアイテムを作成します。
// アイテムの UserID は常に親リストの所有者です。
func (s *TodoService) appendItems(ctx context.Context, q database.Querier, list *models.ToDoList, texts []string) ([]*models.ToDoItem, error) {
	var created []*models.ToDoItem
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		item := &models.ToDoItem{ListID: list.ID, UserID: list.UserID, Text: text}
		if err := s.items.Create(ctx, q, item); err != nil {
			return created, err
		}
		created = append(created, item)
	}
	return created, nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return models.DateOnly(t), true
}
