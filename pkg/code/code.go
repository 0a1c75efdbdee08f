package code

import (
	"fmt"
)

// Code carries a business code, the HTTP status it maps to and a bilingual message
// Code 承载业务码、对应的 HTTP 状态码以及双语消息
type Code struct {
	// 业务码
	code int
	// HTTP 状态码
	httpStatus int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}

// NewError registers an error code, panics on duplicate registration
// NewError 注册一个错误码，重复注册时 panic
func NewError(code int, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, httpStatus: httpStatus, status: false, Lang: l}
}

var sussCodes = map[int]string{}

// NewSuss registers a success code, panics on duplicate registration
// NewSuss 注册一个成功码，重复注册时 panic
func NewSuss(code int, httpStatus int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, httpStatus: httpStatus, status: true, Lang: l}
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	// 创建一个新的副本,而不是修改原对象
	return &Code{
		code:       e.code,
		httpStatus: e.httpStatus,
		status:     e.status,
		Lang:       e.Lang,
		// 其他字段保持默认零值
		data:        nil,
		haveData:    false,
		details:     []string{},
		haveDetails: false,
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// WithData returns a copy carrying the payload, the registered code stays untouched
// WithData 返回携带数据的副本，注册的全局码保持不变
func (e *Code) WithData(data interface{}) *Code {
	n := e.Clone()
	n.haveData = true
	n.data = data
	return n
}

// WithDetails returns a copy carrying the detail lines, the registered code stays untouched
// WithDetails 返回携带详情的副本，注册的全局码保持不变
func (e *Code) WithDetails(details ...string) *Code {
	n := e.Clone()
	n.haveDetails = true
	n.details = append(n.details, details...)
	return n
}

// StatusCode returns the HTTP status code bound at registration
// StatusCode 返回注册时绑定的 HTTP 状态码
func (e *Code) StatusCode() int {
	return e.httpStatus
}
