// Package errors 提供应用程序统一的错误码和错误类型
package errors

import (
	"errors"
	"fmt"

	"github.com/xuanbo/easyshare/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误

	// 文件相关错误码 (2000-2999)
	ErrFileNotFound     ErrorCode = 2000 // 文件未找到
	ErrFileMissing      ErrorCode = 2001 // 请求中缺少文件
	ErrFileUploadFailed ErrorCode = 2002 // 文件上传失败
	ErrFileSaveFailed   ErrorCode = 2003 // 文件保存失败
	ErrFileListFailed   ErrorCode = 2004 // 文件列表获取失败

	// 通知通道相关错误码 (3000-3999)
	ErrWSBadMessage ErrorCode = 3000 // 通知消息格式错误
)

// i18nKeys 错误码到语言包键的映射
var i18nKeys = map[ErrorCode]string{
	ErrSuccess:          "success",
	ErrInternalServer:   "internal_server_error",
	ErrInvalidParams:    "invalid_params",
	ErrFileNotFound:     "file_not_found",
	ErrFileMissing:      "file_missing",
	ErrFileUploadFailed: "file_upload_failed",
	ErrFileSaveFailed:   "file_save_failed",
	ErrFileListFailed:   "file_list_failed",
	ErrWSBadMessage:     "ws_bad_message",
}

// AppError 应用错误结构体
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithOriginalError 添加原始错误
func (e *AppError) WithOriginalError(err error) *AppError {
	e.OriginalError = err
	if e.Details == "" && err != nil {
		e.Details = err.Error()
	}
	return e
}

// New 创建新的应用错误，消息取自语言包
func New(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: Message(code),
	}
}

// NewWithMessage 创建带自定义消息的应用错误
func NewWithMessage(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误为应用错误
func Wrap(code ErrorCode, err error) *AppError {
	return New(code).WithOriginalError(err)
}

// Message 根据错误码获取翻译后的错误消息
func Message(code ErrorCode) string {
	if key, ok := i18nKeys[code]; ok {
		return i18n.T(key)
	}
	return i18n.T("internal_server_error")
}

// GetAppError 从error中提取AppError
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
