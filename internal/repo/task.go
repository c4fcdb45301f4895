package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itsupport/helpdesk-api/internal/model"
)

var (
	ErrorNotFound          = errors.New("not found")
	ErrorInsufficientStock = errors.New("insufficient stock")
)

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

const taskColumns = "id, description, requester, urgency, category, status, created_at, resolved_at, updated_at"

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Description, &t.Requester, &t.Urgency, &t.Category,
		&t.Status, &t.CreatedAt, &t.ResolvedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, description, requester, urgency, category, status)
		VALUES ($1, $2, $3, $4, $5, 'PENDING')
		RETURNING `+taskColumns+`
	`, uuid.NewString(), t.Description, t.Requester, string(t.Urgency), string(t.Category)))
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	// Enum columns sort by declaration order, which gives PENDING before
	// RESOLVED and URGENT first within a status.
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1::urgency_level IS NULL OR urgency = $1)
		  AND ($2::task_category IS NULL OR category = $2)
		  AND ($3::task_status IS NULL OR status = $3)
		  AND ($4::text IS NULL OR description ILIKE '%' || $4 || '%' OR requester ILIKE '%' || $4 || '%')
		  AND ($5::timestamptz IS NULL OR created_at >= $5)
		  AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY status ASC, urgency ASC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query,
		enumArg((*string)(filter.Urgency)),
		enumArg((*string)(filter.Category)),
		enumArg((*string)(filter.Status)),
		filter.Search, filter.DateFrom, filter.DateTo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error) {
	// Omitted fields keep their value; resolved_at tracks the status
	// transition inside the same statement.
	t, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET description = COALESCE($2, description),
		    requester   = COALESCE($3, requester),
		    urgency     = COALESCE($4::urgency_level, urgency),
		    category    = COALESCE($5::task_category, category),
		    status      = COALESCE($6::task_status, status),
		    resolved_at = CASE
		        WHEN $6::task_status IS NULL THEN resolved_at
		        WHEN $6::task_status = 'RESOLVED' THEN now()
		        ELSE NULL
		    END,
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, upd.Description, upd.Requester,
		enumArg((*string)(upd.Urgency)),
		enumArg((*string)(upd.Category)),
		enumArg((*string)(upd.Status)),
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// Stats собирает показатели для дашборда. Подзапросы идут без общей
// транзакции - снимок best-effort, как и в остальных списках.
func (r *TaskRepo) Stats(ctx context.Context) (model.TaskStats, error) {
	var s model.TaskStats

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COUNT(*) FILTER (WHERE status = 'RESOLVED'),
		       COUNT(*) FILTER (WHERE status = 'PENDING' AND urgency = 'URGENT')
		FROM tasks
	`).Scan(&s.TotalTasks, &s.PendingTasks, &s.ResolvedTasks, &s.UrgentTasks)
	if err != nil {
		return s, err
	}

	s.TasksByCategory = make([]model.CategoryCount, 0)
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*)
		FROM tasks
		WHERE status = 'PENDING'
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return s, err
	}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			rows.Close()
			return s, err
		}
		s.TasksByCategory = append(s.TasksByCategory, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return s, err
	}

	s.TasksByUrgency = make([]model.UrgencyCount, 0)
	rows, err = r.pool.Query(ctx, `
		SELECT urgency, COUNT(*)
		FROM tasks
		WHERE status = 'PENDING'
		GROUP BY urgency
		ORDER BY urgency
	`)
	if err != nil {
		return s, err
	}
	for rows.Next() {
		var u model.UrgencyCount
		if err := rows.Scan(&u.Urgency, &u.Count); err != nil {
			rows.Close()
			return s, err
		}
		s.TasksByUrgency = append(s.TasksByUrgency, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return s, err
	}

	s.RecentTasks = make([]model.Task, 0, 5)
	rows, err = r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE status = 'PENDING'
		ORDER BY created_at DESC
		LIMIT 5
	`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return s, err
		}
		s.RecentTasks = append(s.RecentTasks, t)
	}
	return s, rows.Err()
}

// enumArg keeps nil pointers as SQL NULL while letting pgx send plain
// text for the enum casts in the queries above.
func enumArg(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

var _ TaskRepository = (*TaskRepo)(nil)
