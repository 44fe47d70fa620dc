package task

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/taskhub/internal/model"
)

// --- モック定義 ---

type mockTaskRepo struct {
	createFn         func(ctx context.Context, task *model.Task) error
	listByOwnerFn    func(ctx context.Context, ownerID string) ([]*model.Task, error)
	findByOwnerAndID func(ctx context.Context, ownerID, taskID string) (*model.Task, error)
	updateFn         func(ctx context.Context, task *model.Task) (bool, error)
	deleteFn         func(ctx context.Context, ownerID, taskID string) (bool, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task *model.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	return nil
}

func (m *mockTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Task, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return []*model.Task{}, nil
}

func (m *mockTaskRepo) FindByOwnerAndID(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	if m.findByOwnerAndID != nil {
		return m.findByOwnerAndID(ctx, ownerID, taskID)
	}
	return nil, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *model.Task) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, task)
	}
	return true, nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, ownerID, taskID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, taskID)
	}
	return true, nil
}

func strPtr(s string) *string { return &s }

// --- Create ---

// 作成成功時にID採番とオーナー設定がされることを検証
func TestService_Create_Success(t *testing.T) {
	var saved *model.Task
	repo := &mockTaskRepo{
		createFn: func(ctx context.Context, task *model.Task) error {
			saved = task
			return nil
		},
	}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), "owner-1", "buy milk", "pending", "personal")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("task ID should be generated")
	}
	if created.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want %q", created.OwnerID, "owner-1")
	}
	if created.Taskname != "buy milk" || created.Status != model.StatusPending || created.Tag != model.TagPersonal {
		t.Errorf("unexpected task fields: %+v", created)
	}
	if saved == nil || saved.ID != created.ID {
		t.Error("created task should be persisted")
	}
}

// 必須項目の欠落と不正な列挙値がValidationErrorになることを検証
func TestService_Create_Validation(t *testing.T) {
	svc := NewService(&mockTaskRepo{
		createFn: func(ctx context.Context, task *model.Task) error {
			t.Error("repo should not be called on validation failure")
			return nil
		},
	})

	cases := []struct {
		name                  string
		taskname, status, tag string
	}{
		{"empty taskname", "", "pending", "personal"},
		{"empty status", "t", "", "personal"},
		{"empty tag", "t", "pending", ""},
		{"bad status", "t", "completed", "personal"},
		{"bad tag", "t", "pending", "hobby"},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), "owner-1", c.taskname, c.status, c.tag)
		assertAPIErrorCode(t, err, model.ErrCodeValidation, c.name)
	}
}

// --- List ---

// リポジトリの結果がそのまま返ることを検証
func TestService_List_ReturnsOwnerTasks(t *testing.T) {
	repo := &mockTaskRepo{
		listByOwnerFn: func(ctx context.Context, ownerID string) ([]*model.Task, error) {
			if ownerID != "owner-1" {
				t.Errorf("ownerID = %q, want %q", ownerID, "owner-1")
			}
			return []*model.Task{
				{ID: "t1", OwnerID: ownerID, Taskname: "a"},
				{ID: "t2", OwnerID: ownerID, Taskname: "b"},
			}, nil
		},
	}
	svc := NewService(repo)

	tasks, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
}

// タスクがない場合に空スライスが返り、エラーにならないことを検証
func TestService_List_Empty(t *testing.T) {
	svc := NewService(&mockTaskRepo{})

	tasks, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("tasks = %v, want empty slice", tasks)
	}
}

// --- Update ---

// 指定フィールドのみが更新され、未指定フィールドが維持されることを検証
func TestService_Update_PartialFields(t *testing.T) {
	repo := &mockTaskRepo{
		findByOwnerAndID: func(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
			return &model.Task{
				ID:       taskID,
				OwnerID:  ownerID,
				Taskname: "original name",
				Status:   model.StatusPending,
				Tag:      model.TagPersonal,
			}, nil
		},
	}
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{
		Status: strPtr("done"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != model.StatusDone {
		t.Errorf("Status = %q, want %q", updated.Status, model.StatusDone)
	}
	if updated.Taskname != "original name" {
		t.Errorf("Taskname = %q, should be unchanged", updated.Taskname)
	}
	if updated.Tag != model.TagPersonal {
		t.Errorf("Tag = %q, should be unchanged", updated.Tag)
	}
}

// フィールド未指定の更新がValidationErrorになることを検証
func TestService_Update_NoFields(t *testing.T) {
	svc := NewService(&mockTaskRepo{
		findByOwnerAndID: func(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
			t.Error("repo should not be called when no fields are supplied")
			return nil, nil
		},
	})

	_, err := svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{})
	assertAPIErrorCode(t, err, model.ErrCodeValidation, "empty input")
}

// 対象タスクがない（他オーナー所有を含む）場合にNotFoundになることを検証
func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(&mockTaskRepo{
		findByOwnerAndID: func(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
			return nil, nil
		},
	})

	_, err := svc.Update(context.Background(), "owner-2", "task-1", UpdateInput{
		Status: strPtr("done"),
	})
	assertAPIErrorCode(t, err, model.ErrCodeTaskNotFound, "other owner")
}

// 不正な列挙値での更新がValidationErrorになることを検証
func TestService_Update_InvalidEnum(t *testing.T) {
	repo := &mockTaskRepo{
		findByOwnerAndID: func(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
			return &model.Task{ID: taskID, OwnerID: ownerID, Taskname: "t", Status: model.StatusPending, Tag: model.TagPersonal}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{Status: strPtr("archived")})
	assertAPIErrorCode(t, err, model.ErrCodeValidation, "bad status")

	_, err = svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{Tag: strPtr("hobby")})
	assertAPIErrorCode(t, err, model.ErrCodeValidation, "bad tag")

	_, err = svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{Taskname: strPtr("")})
	assertAPIErrorCode(t, err, model.ErrCodeValidation, "empty taskname")
}

// 読み取り後に削除されていた場合のNotFoundを検証
func TestService_Update_DeletedBetweenReadAndWrite(t *testing.T) {
	repo := &mockTaskRepo{
		findByOwnerAndID: func(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
			return &model.Task{ID: taskID, OwnerID: ownerID, Taskname: "t", Status: model.StatusPending, Tag: model.TagPersonal}, nil
		},
		updateFn: func(ctx context.Context, task *model.Task) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), "owner-1", "task-1", UpdateInput{Status: strPtr("done")})
	assertAPIErrorCode(t, err, model.ErrCodeTaskNotFound, "deleted concurrently")
}

// --- Delete ---

// 削除成功と対象なしのNotFoundを検証
func TestService_Delete(t *testing.T) {
	repo := &mockTaskRepo{
		deleteFn: func(ctx context.Context, ownerID, taskID string) (bool, error) {
			return ownerID == "owner-1" && taskID == "task-1", nil
		},
	}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), "owner-1", "task-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err := svc.Delete(context.Background(), "owner-2", "task-1")
	assertAPIErrorCode(t, err, model.ErrCodeTaskNotFound, "other owner delete")
}

// リポジトリ障害がAPIErrorにならず内部エラーとして伝播することを検証
func TestService_Delete_RepoError(t *testing.T) {
	repo := &mockTaskRepo{
		deleteFn: func(ctx context.Context, ownerID, taskID string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "owner-1", "task-1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("repo failure should not map to an APIError, got %v", apiErr)
	}
}

func assertAPIErrorCode(t *testing.T, err error, code, name string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected %s error, got nil", name, code)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("%s: error type = %T, want *model.APIError", name, err)
	}
	if apiErr.Code != code {
		t.Errorf("%s: Code = %q, want %q", name, apiErr.Code, code)
	}
}
