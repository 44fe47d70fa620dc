package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open はタスク・ユーザーデータを保持するPostgreSQLへの接続プールを開く。
// databaseURLには環境変数DATABASE_URLで渡される接続URLをそのまま指定する。
// この時点では実接続は確立されないため、起動時の疎通確認は呼び出し側がdb.Ping()で行う。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
