package code

import (
	"net/http"
)

// Success codes
// 成功码
var (
	Success        = NewSuss(0, http.StatusOK, lang{"Success", "成功"})
	SuccessCreated = NewSuss(1, http.StatusCreated, lang{"Created", "创建成功"})
)

// Error codes
// 错误码
var (
	ErrorInvalidParams    = NewError(10000001, http.StatusBadRequest, lang{"Invalid request parameters", "请求参数错误"})
	ErrorNoFileProvided   = NewError(10000002, http.StatusBadRequest, lang{"No file provided", "未提供文件"})
	ErrorNotFoundAPI      = NewError(10000003, http.StatusNotFound, lang{"Not found", "接口不存在"})
	ErrorMethodNotAllowed = NewError(10000004, http.StatusMethodNotAllowed, lang{"Method not allowed", "请求方法不允许"})
	ErrorTooManyRequests  = NewError(10000005, http.StatusTooManyRequests, lang{"Too many requests", "请求过于频繁"})
	ErrorRequestTimeout   = NewError(10000006, http.StatusRequestTimeout, lang{"Request timeout", "请求超时"})
	ErrorServerInternal   = NewError(10000007, http.StatusInternalServerError, lang{"Internal server error", "服务内部错误"})

	ErrorNoteNotFound  = NewError(10010001, http.StatusNotFound, lang{"Note not found", "便签不存在"})
	ErrorImageNotFound = NewError(10010002, http.StatusNotFound, lang{"Image not found", "图片不存在"})

	ErrorInvalidStorageType = NewError(10020001, http.StatusInternalServerError, lang{"Invalid storage type", "存储类型无效"})
	ErrorBlobWriteFailed    = NewError(10020002, http.StatusInternalServerError, lang{"Failed to store file", "文件存储失败"})
)
