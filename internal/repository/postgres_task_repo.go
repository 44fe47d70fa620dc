package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskhub/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
// 単一レコード操作のWHERE句は必ずid AND owner_idで絞り込み、
// 他ユーザー所有のタスクを「存在しない」として扱う。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, taskname, status, tag, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.OwnerID, task.Taskname, string(task.Status), string(task.Tag),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// ListByOwner は指定オーナーの全タスクを返す。該当なしの場合は空スライスを返す。
func (r *PostgresTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, taskname, status, tag, created_at, updated_at
		 FROM tasks WHERE owner_id = $1
		 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		task := &model.Task{}
		if err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Taskname, &task.Status, &task.Tag,
			&task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// FindByOwnerAndID はオーナーIDとタスクIDでタスクを取得する。
// 見つからない場合（他オーナー所有の場合を含む）はnilを返す。
func (r *PostgresTaskRepo) FindByOwnerAndID(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, taskname, status, tag, created_at, updated_at
		 FROM tasks WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID,
	).Scan(&task.ID, &task.OwnerID, &task.Taskname, &task.Status, &task.Tag,
		&task.CreatedAt, &task.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Update はタスクの全フィールドを上書き更新する。対象がない場合はfalseを返す。
func (r *PostgresTaskRepo) Update(ctx context.Context, task *model.Task) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET taskname = $1, status = $2, tag = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6`,
		task.Taskname, string(task.Status), string(task.Tag), task.UpdatedAt,
		task.ID, task.OwnerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete はオーナーIDとタスクIDでタスクを物理削除する。対象がない場合はfalseを返す。
func (r *PostgresTaskRepo) Delete(ctx context.Context, ownerID, taskID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
