// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskhub/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// emailの一意制約に違反した場合はDuplicateEmailErrorを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	// 照合は格納時のままのcase-sensitive比較。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
// 単一レコード操作は必ずIDとオーナーIDの両方で絞り込む。
type TaskRepository interface {
	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// ListByOwner は指定オーナーの全タスクを返す。該当なしの場合は空スライスを返す。
	// created_at, idの昇順で安定した順序を保証する。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Task, error)

	// FindByOwnerAndID はオーナーIDとタスクIDでタスクを取得する。
	// 見つからない場合（他オーナー所有の場合を含む）はnilを返す。
	FindByOwnerAndID(ctx context.Context, ownerID, taskID string) (*model.Task, error)

	// Update はタスクの全フィールドを上書き更新する。
	// WHERE句はIDとOwnerIDの両方で絞り込む。対象がない場合はfalseを返す。
	Update(ctx context.Context, task *model.Task) (bool, error)

	// Delete はオーナーIDとタスクIDでタスクを物理削除する。
	// 対象がない場合（他オーナー所有の場合を含む）はfalseを返す。
	Delete(ctx context.Context, ownerID, taskID string) (bool, error)
}
