// Package response 提供统一的API响应格式
// 所有JSON接口都返回 {code, msg, data} 结构的信封
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一返回值结构体
type Response struct {
	// 状态码，与HTTP状态码保持一致
	Code int `json:"code"`
	// 响应消息
	Msg string `json:"msg"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  msg,
		Data: data,
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: http.StatusBadRequest,
		Msg:  msg,
	})
}

// NotFound 404错误响应
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{
		Code: http.StatusNotFound,
		Msg:  msg,
	})
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: http.StatusInternalServerError,
		Msg:  msg,
	})
}

// InternalServerErrorWithData 带数据的500错误响应
// 列表接口失败时携带空列表，方便前端直接渲染
func InternalServerErrorWithData(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: http.StatusInternalServerError,
		Msg:  msg,
		Data: data,
	})
}
