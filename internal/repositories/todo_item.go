package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/Masterminds/squirrel"

	"go-todo-lists/internal/database"
	"go-todo-lists/internal/models"
)

// ErrItemNotFound はアイテムが見つからない場合のエラーです。
var ErrItemNotFound = errors.New("todo item not found")

var itemColumns = []string{"id", "list_id", "user_id", "text", "completed"}

// ItemRepository はtodo_itemsテーブルを操作します。
type ItemRepository struct {
	sq squirrel.StatementBuilderType
}

// NewItemRepository は新しいItemRepositoryを作成します。
func NewItemRepository() *ItemRepository {
	return &ItemRepository{sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)}
}

// Create はアイテムを挿入します。item.UserID は親リストの所有者でなければなりません。
func (r *ItemRepository) Create(ctx context.Context, q database.Querier, item *models.ToDoItem) error {
	query, args, err := r.sq.Insert("todo_items").
		Columns("list_id", "user_id", "text", "completed").
		Values(item.ListID, item.UserID, item.Text, item.Completed).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build insert: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to insert todo item: %v", err)
		return fmt.Errorf("could not insert todo item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	item.ID = int(id)
	return nil
}

// FindByID は指定されたIDのアイテムを取得します。
func (r *ItemRepository) FindByID(ctx context.Context, q database.Querier, id int) (*models.ToDoItem, error) {
	query, args, err := r.sq.Select(itemColumns...).From("todo_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build select: %w", err)
	}

	var item models.ToDoItem
	err = q.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.ListID, &item.UserID, &item.Text, &item.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		log.Printf("Failed to query todo item by ID: %v", err)
		return nil, fmt.Errorf("could not query todo item: %w", err)
	}
	return &item, nil
}

// FindByListID はリストのアイテムを追加順で取得します。
func (r *ItemRepository) FindByListID(ctx context.Context, q database.Querier, listID int) ([]*models.ToDoItem, error) {
	query, args, err := r.sq.Select(itemColumns...).From("todo_items").
		Where(squirrel.Eq{"list_id": listID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build select: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query todo items: %v", err)
		return nil, fmt.Errorf("could not query todo items: %w", err)
	}
	defer rows.Close()

	var items []*models.ToDoItem
	for rows.Next() {
		var item models.ToDoItem
		if err := rows.Scan(&item.ID, &item.ListID, &item.UserID, &item.Text, &item.Completed); err != nil {
			return nil, fmt.Errorf("could not scan todo item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo items: %w", err)
	}
	return items, nil
}

// Update はアイテムのテキストと完了状態を更新します。
func (r *ItemRepository) Update(ctx context.Context, q database.Querier, item *models.ToDoItem) error {
	query, args, err := r.sq.Update("todo_items").
		Set("text", item.Text).
		Set("completed", item.Completed).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build update: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to update todo item: %v", err)
		return fmt.Errorf("could not update todo item: %w", err)
	}
	return nil
}

// Delete はアイテムを削除します。
func (r *ItemRepository) Delete(ctx context.Context, q database.Querier, id int) error {
	query, args, err := r.sq.Delete("todo_items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("could not build delete: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to delete todo item: %v", err)
		return fmt.Errorf("could not delete todo item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}
