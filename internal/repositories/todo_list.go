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

// ErrListNotFound はリストが見つからない場合のエラーです。
var ErrListNotFound = errors.New("todo list not found")

var listColumns = []string{"id", "user_id", "title", "urgency", "date_created", "due_date"}

// ListRepository はtodo_listsテーブルを操作します。
// すべてのメソッドは Querier を受け取るので、トランザクション内でも使えます。
type ListRepository struct {
	sq squirrel.StatementBuilderType
}

// NewListRepository は新しいListRepositoryを作成します。
// MySQLとSQLiteの両方が "?" プレースホルダーを受け付けます。
func NewListRepository() *ListRepository {
	return &ListRepository{sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)}
}

// Create は新しいリストを挿入し、採番されたIDをセットします。
func (r *ListRepository) Create(ctx context.Context, q database.Querier, l *models.ToDoList) error {
	query, args, err := r.sq.Insert("todo_lists").
		Columns("user_id", "title", "urgency", "date_created", "due_date").
		Values(l.UserID, l.Title, string(l.Urgency), l.DateCreated, l.DueDate).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build insert: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to insert todo list: %v", err)
		return fmt.Errorf("could not insert todo list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	l.ID = int(id)
	return nil
}

// FindByID は指定されたIDのリストを取得します。アイテムは読み込みません。
func (r *ListRepository) FindByID(ctx context.Context, q database.Querier, id int) (*models.ToDoList, error) {
	query, args, err := r.sq.Select(listColumns...).From("todo_lists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build select: %w", err)
	}

	l, err := scanList(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListNotFound
		}
		log.Printf("Failed to query todo list by ID: %v", err)
		return nil, fmt.Errorf("could not query todo list: %w", err)
	}
	return l, nil
}

// FindByUserID はユーザーのリストを作成順 (ID昇順) で取得します。
func (r *ListRepository) FindByUserID(ctx context.Context, q database.Querier, userID int) ([]*models.ToDoList, error) {
	query, args, err := r.sq.Select(listColumns...).From("todo_lists").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build select: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to query todo lists: %v", err)
		return nil, fmt.Errorf("could not query todo lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.ToDoList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan todo list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo lists: %w", err)
	}
	return lists, nil
}

// UpdateFields は変更のあった列だけを更新します。fields が空なら何もしません。
func (r *ListRepository) UpdateFields(ctx context.Context, q database.Querier, id int, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	query, args, err := r.sq.Update("todo_lists").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build update: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		log.Printf("Failed to update todo list: %v", err)
		return fmt.Errorf("could not update todo list: %w", err)
	}
	return nil
}

// Delete はリストを削除します。アイテムは外部キーのON DELETE CASCADEで削除されます。
func (r *ListRepository) Delete(ctx context.Context, q database.Querier, id int) error {
	query, args, err := r.sq.Delete("todo_lists").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("could not build delete: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to delete todo list: %v", err)
		return fmt.Errorf("could not delete todo list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return ErrListNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (*models.ToDoList, error) {
	var l models.ToDoList
	var urgency string
	if err := row.Scan(&l.ID, &l.UserID, &l.Title, &urgency, &l.DateCreated, &l.DueDate); err != nil {
		return nil, err
	}
	l.Urgency = models.Urgency(urgency)
	l.DateCreated = models.DateOnly(l.DateCreated)
	l.DueDate = models.DateOnly(l.DueDate)
	return &l, nil
}
