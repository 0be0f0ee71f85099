package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		task.UserID, task.Title, task.Description, task.Status,
	)
	return scanTask(row)
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanTask(row)
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, patch domain.TaskPatch) (*domain.Task, error) {
	// updated_at must move forward even when two updates land in the same
	// clock tick, hence GREATEST against the previous value.
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET    title       = COALESCE($3, title),
		       description = COALESCE($4, description),
		       status      = COALESCE($5, status),
		       updated_at  = GREATEST(clock_timestamp(), updated_at + INTERVAL '1 microsecond')
		WHERE  id = $1 AND user_id = $2
		RETURNING `+taskColumns,
		id, userID, patch.Title, patch.Description, patch.Status,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID string) error {
	var deleted string
	err := r.pool.QueryRow(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING id`,
		id, userID,
	).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, int, error) {
	where, args := buildTaskFilter(input)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	args = append(args, input.Offset, input.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
		OFFSET $%d LIMIT $%d`,
		taskColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0, input.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// buildTaskFilter returns the WHERE clause (without the keyword) and its
// positional args. The owner predicate is always first.
func buildTaskFilter(input repository.ListTasksInput) (string, []any) {
	args := []any{input.UserID}
	where := []string{"user_id = $1"}

	if input.Status != "" && input.Status != domain.TaskStatusAll {
		args = append(args, string(input.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if input.Search != "" {
		args = append(args, "%"+escapeLike(input.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return strings.Join(where, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}
