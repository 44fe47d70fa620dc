// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// パスワードはbcryptハッシュのみ保持し、平文は一切保存しない。
// レコードはサインアップ時に一度だけ作成され、以後更新も削除もされない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IPAddress    string // 登録時の接続元IP。記録のみで認可判定には使わない。
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
