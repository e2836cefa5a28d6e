package shared

import "net/http"

type ApiErrorType string

const (
	ApiErrorTypeDecode       ApiErrorType = "decode_error"
	ApiErrorTypeQuota        ApiErrorType = "quota_error"
	ApiErrorTypeNotFound     ApiErrorType = "not_found"
	ApiErrorTypeInvalidRef   ApiErrorType = "invalid_reference"
	ApiErrorTypeDepthLimit   ApiErrorType = "depth_limit"
	ApiErrorTypeInit         ApiErrorType = "init_error"
	ApiErrorTypeMigration    ApiErrorType = "migration_error"
	ApiErrorTypeInvalidInput ApiErrorType = "invalid_input"

	ApiErrorTypeOther ApiErrorType = "other"
)

type ApiError struct {
	Type   ApiErrorType `json:"type"`
	Status int          `json:"status"`
	Msg    string       `json:"msg"`
}

func (e *ApiError) Error() string {
	return e.Msg
}

func ApiErr(t ApiErrorType, status int, msg string) *ApiError {
	return &ApiError{Type: t, Status: status, Msg: msg}
}

func NotFoundErr(msg string) *ApiError {
	return ApiErr(ApiErrorTypeNotFound, http.StatusNotFound, msg)
}

func InvalidRefErr(msg string) *ApiError {
	return ApiErr(ApiErrorTypeInvalidRef, http.StatusUnprocessableEntity, msg)
}

func QuotaErr(msg string) *ApiError {
	return ApiErr(ApiErrorTypeQuota, http.StatusInsufficientStorage, msg)
}

func DecodeErr(msg string) *ApiError {
	return ApiErr(ApiErrorTypeDecode, http.StatusUnprocessableEntity, msg)
}
