// Package task はタスク管理のドメインロジックを提供する。
// すべての操作は認証済みオーナーのIDでスコープされる。
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskhub/internal/model"
	"github.com/hitoshi/taskhub/internal/repository"
)

// UpdateInput は部分更新の入力を表す。
// nilのフィールドは「変更しない」を意味する。
type UpdateInput struct {
	Taskname *string
	Status   *string
	Tag      *string
}

// Empty は更新対象フィールドが1つも指定されていないかどうかを返す。
func (in UpdateInput) Empty() bool {
	return in.Taskname == nil && in.Status == nil && in.Tag == nil
}

// Service はタスク管理のサービス層。
// 入力検証を永続化前に行い、ストア側の制約には依存しない。
type Service struct {
	taskRepo repository.TaskRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(taskRepo repository.TaskRepository) *Service {
	return &Service{taskRepo: taskRepo}
}

// Create は新規タスクを作成し、採番済みIDを含むレコードを返す。
// taskname/status/tagのいずれかが欠落、または列挙値が不正な場合はValidationErrorを返す。
func (s *Service) Create(ctx context.Context, ownerID, taskname, status, tag string) (*model.Task, error) {
	if taskname == "" {
		return nil, model.NewValidationError("tasknameは必須です。")
	}
	if status == "" || tag == "" {
		return nil, model.NewValidationError("statusとtagは必須です。")
	}
	if !model.TaskStatus(status).Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("statusが不正です: %s（pending, doneのいずれかを指定してください）", status))
	}
	if !model.TaskTag(tag).Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("tagが不正です: %s（personal, official, familyのいずれかを指定してください）", tag))
	}

	now := time.Now()
	task := &model.Task{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Taskname:  taskname,
		Status:    model.TaskStatus(status),
		Tag:       model.TaskTag(tag),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	return task, nil
}

// List はオーナーの全タスクを返す。該当なしの場合は空スライスを返し、エラーにはしない。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}

	return tasks, nil
}

// Update は指定フィールドのみを適用する部分更新を行い、更新後のレコードを返す。
// フィールド未指定の場合はValidationError、対象タスクが存在しない
// （他オーナー所有の場合を含む）場合はNotFoundを返す。
// 読み取り→適用→書き戻しの単純な流れで、同時更新は後勝ちになる。
func (s *Service) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*model.Task, error) {
	if in.Empty() {
		return nil, model.NewValidationError("更新するフィールドを1つ以上指定してください。")
	}

	task, err := s.taskRepo.FindByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	if in.Taskname != nil {
		if *in.Taskname == "" {
			return nil, model.NewValidationError("tasknameは空にできません。")
		}
		task.Taskname = *in.Taskname
	}
	if in.Status != nil {
		if !model.TaskStatus(*in.Status).Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("statusが不正です: %s（pending, doneのいずれかを指定してください）", *in.Status))
		}
		task.Status = model.TaskStatus(*in.Status)
	}
	if in.Tag != nil {
		if !model.TaskTag(*in.Tag).Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("tagが不正です: %s（personal, official, familyのいずれかを指定してください）", *in.Tag))
		}
		task.Tag = model.TaskTag(*in.Tag)
	}

	task.UpdatedAt = time.Now()

	updated, err := s.taskRepo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}
	if !updated {
		// 読み取りと書き戻しの間に削除された場合
		return nil, model.NewTaskNotFoundError(taskID)
	}

	return task, nil
}

// Delete はオーナー所有のタスクを物理削除する。
// 対象がない場合（他オーナー所有の場合を含む）はNotFoundを返す。
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	deleted, err := s.taskRepo.Delete(ctx, ownerID, taskID)
	if err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(taskID)
	}

	return nil
}
