package pkg

import (
	"net/http"
)

// Error messages sent to clients. The web client shows them as-is, so they stay in Thai.
const (
	MsgNoToken              = "ไม่พบ token"
	MsgInvalidToken         = "Token ไม่ถูกต้อง"
	MsgInvalidInput         = "ข้อมูลไม่ถูกต้อง"
	MsgInternalError        = "เกิดข้อผิดพลาด"
	MsgNotFound             = "ไม่พบข้อมูล"
	MsgUserNotFound         = "ไม่พบผู้ใช้"
	MsgDuplicateUser        = "Email หรือ Username นี้ถูกใช้แล้ว"
	MsgEmailTaken           = "อีเมลนี้ถูกใช้งานแล้ว"
	MsgWrongCredentials     = "อีเมลหรือรหัสผ่านไม่ถูกต้อง"
	MsgWrongPassword        = "รหัสผ่านไม่ถูกต้อง"
	MsgWrongCurrentPassword = "รหัสผ่านปัจจุบันไม่ถูกต้อง"
	MsgRateLimited          = "มีการร้องขอมากเกินไป กรุณาลองใหม่ภายหลัง"
	MsgOriginNotAllowed     = "ไม่อนุญาตให้เข้าถึง"
)

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

func WriteValidationErrorResponse(w http.ResponseWriter, details []FieldError) {
	WriteJSONResponse(w, http.StatusBadRequest, ErrorResponse{
		Error:   MsgInvalidInput,
		Details: details,
	})
}

func WriteUnauthorizedResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusUnauthorized, message)
}

func WriteNotFoundResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusNotFound, message)
}

// WriteInternalErrorResponse never leaks the cause; callers log it before answering.
func WriteInternalErrorResponse(w http.ResponseWriter) {
	WriteResponse(
		w,
		ContentType.JSON,
		`{"error":"`+MsgInternalError+`"}`,
		http.StatusInternalServerError,
	)
}
