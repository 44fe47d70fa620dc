package model

import "time"

// TaskStatus はタスクの進行状態を表す。
type TaskStatus string

const (
	// StatusPending は未完了タスクを示す。
	StatusPending TaskStatus = "pending"
	// StatusDone は完了済みタスクを示す。
	StatusDone TaskStatus = "done"
)

// Valid は定義済みのステータスかどうかを返す。
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDone:
		return true
	}
	return false
}

// TaskTag はタスクの分類タグを表す。
type TaskTag string

const (
	// TagPersonal は個人タスクを示す。
	TagPersonal TaskTag = "personal"
	// TagOfficial は業務タスクを示す。
	TagOfficial TaskTag = "official"
	// TagFamily は家庭タスクを示す。
	TagFamily TaskTag = "family"
)

// Valid は定義済みのタグかどうかを返す。
func (t TaskTag) Valid() bool {
	switch t {
	case TagPersonal, TagOfficial, TagFamily:
		return true
	}
	return false
}

// Task はユーザー所有のタスクを表す。
// OwnerIDは作成時に一度だけ設定され、以後付け替えられない。
// 読み取り・更新・削除は必ずIDとOwnerIDの両方で絞り込む。
type Task struct {
	ID        string
	OwnerID   string
	Taskname  string
	Status    TaskStatus
	Tag       TaskTag
	CreatedAt time.Time
	UpdatedAt time.Time
}
