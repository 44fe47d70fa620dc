package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskhub/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスのワイヤフォーマット。
// 外部契約としてerrorフィールドのみを公開する。コードやカテゴリは
// ステータスコードの決定とログにのみ使用する。
type ErrorResponseBody struct {
	Error string `json:"error"`
}

// WriteErrorResponse は統一フォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error: apiErr.Message,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
