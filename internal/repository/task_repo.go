package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, due_date, completed, user_id`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, due_date, completed, user_id)
		 VALUES ($1, $2, $3, FALSE, $4)
		 RETURNING id`,
		t.Title, t.Description, t.DueDate, t.UserID,
	).Scan(&id)
	if err != nil {
		logger.WithContext(ctx).Error("insert task failed", "user_id", t.UserID, "error", err)
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Update issues one UPDATE naming only the patched columns, then reads the
// row back. A patch with no fields skips the write.
func (r *TaskRepository) Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description.Set {
		set("description", p.Description.Ptr())
	}
	if p.DueDate.Set {
		set("due_date", p.DueDate.Ptr())
	}
	if p.Completed != nil {
		set("completed", *p.Completed)
	}

	if len(sets) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
		if _, err := r.db.Exec(ctx, query, args...); err != nil {
			logger.WithContext(ctx).Error("update task failed", "task_id", id, "error", err)
			return nil, fmt.Errorf("update task %d: %w", id, err)
		}
	}

	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.WithContext(ctx).Error("delete task failed", "task_id", id, "error", err)
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Completed, &t.UserID); err != nil {
		return nil, err
	}
	// TIMESTAMPTZ comes back in the session time zone
	t.DueDate = domain.InUTC(t.DueDate)
	return &t, nil
}
