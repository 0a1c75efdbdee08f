package app

import (
	"strings"

	"github.com/haierkeys/fridge-board-service/pkg/code"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Ctx *gin.Context
}

// ErrorRes error response body
// ErrorRes 错误响应体
type ErrorRes struct {
	Error string `json:"error"`
}

// SuccessRes success response body for operations without a payload
// SuccessRes 无负载操作的成功响应体
type SuccessRes struct {
	Success bool `json:"success"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

func GetAccessHost(c *gin.Context) string {
	AccessProto := ""
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto == "" {
		AccessProto = "http" + "://"
	} else {
		AccessProto = proto + "://"
	}
	return AccessProto + c.Request.Host
}

// ToEntity outputs an entity or a list as-is with 200
// ToEntity 原样输出实体或列表，状态码 200
func (r *Response) ToEntity(data interface{}) {
	r.Ctx.Set("status_code", code.Success.StatusCode())
	r.send(code.Success.StatusCode(), data)
}

// ToCreated outputs the freshly created entity with 201
// ToCreated 输出新创建的实体，状态码 201
func (r *Response) ToCreated(data interface{}) {
	r.Ctx.Set("status_code", code.SuccessCreated.StatusCode())
	r.send(code.SuccessCreated.StatusCode(), data)
}

// ToSuccess outputs {"success":true} with 200
// ToSuccess 输出 {"success":true}，状态码 200
func (r *Response) ToSuccess() {
	r.Ctx.Set("status_code", code.Success.StatusCode())
	r.send(code.Success.StatusCode(), SuccessRes{Success: true})
}

// ToError outputs {"error":...} with the HTTP status bound to the code
// Details, when present, are appended to the message
// ToError 输出 {"error":...}，HTTP 状态码取自错误码绑定值
// 如存在详情，会拼接到消息之后
func (r *Response) ToError(codeObj *code.Code) {
	r.Ctx.Set("status_code", codeObj.StatusCode())

	msg := codeObj.Lang.GetMessage()
	if codeObj.HaveDetails() {
		msg = msg + ": " + strings.Join(codeObj.Details(), ", ")
	}

	r.send(codeObj.StatusCode(), ErrorRes{Error: msg})
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
