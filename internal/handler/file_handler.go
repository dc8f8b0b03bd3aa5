// Package handler 提供HTTP请求处理器
package handler

import (
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xuanbo/easyshare/internal/errors"
	"github.com/xuanbo/easyshare/internal/i18n"
	"github.com/xuanbo/easyshare/internal/logger"
	"github.com/xuanbo/easyshare/internal/notify"
	"github.com/xuanbo/easyshare/internal/response"
	"github.com/xuanbo/easyshare/internal/service/storage"
)

// FileHandler 文件处理器
// 负责上传、列表和下载三个接口，上传成功后触发通知广播
type FileHandler struct {
	fileService   storage.FileService
	hub           *notify.Hub
	publicBaseURL string
}

// NewFileHandler 创建文件处理器实例
// publicBaseURL为空时根据请求推断下载地址的基地址
func NewFileHandler(fileService storage.FileService, hub *notify.Hub, publicBaseURL string) *FileHandler {
	return &FileHandler{
		fileService:   fileService,
		hub:           hub,
		publicBaseURL: publicBaseURL,
	}
}

// UploadFile 上传文件
// 接收multipart表单中的file字段，保存成功后向所有通知连接
// 广播files:updated事件，并在响应中返回文件描述符
func (h *FileHandler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		// 未携带文件是客户端错误，不写盘也不广播
		response.BadRequest(c, i18n.T("file_missing"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalServerError(c, i18n.T("file_upload_failed"))
		return
	}
	defer src.Close()

	descriptor, err := h.fileService.SaveFile(file.Filename, src, h.baseURL(c))
	if err != nil {
		logger.Errorf("上传文件 %s 失败: %v", file.Filename, err)
		if appErr, ok := apperrors.GetAppError(err); ok {
			response.InternalServerError(c, appErr.Message)
		} else {
			response.InternalServerError(c, i18n.T("file_upload_failed"))
		}
		return
	}

	// 广播是尽力而为的，不影响上传结果
	h.hub.BroadcastFilesUpdated(descriptor)

	response.Success(c, i18n.T("upload_success"), descriptor)
}

// ListFiles 获取文件列表
// 返回存储目录下全部文件的描述符，按修改时间降序
func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.fileService.ListFiles(h.baseURL(c))
	if err != nil {
		// 目录枚举失败时返回空列表，方便前端直接渲染
		response.InternalServerErrorWithData(c, i18n.T("file_list_failed"), []*storage.FileDescriptor{})
		return
	}

	response.Success(c, i18n.T("ok"), files)
}

// DownloadFile 下载文件
// 按存储名定位文件；Content-Disposition携带URL编码的展示名，
// 浏览器保存时恢复用户上传的原始文件名
func (h *FileHandler) DownloadFile(c *gin.Context) {
	storedName := c.Param("name")

	path, err := h.fileService.FilePath(storedName)
	if err != nil {
		response.NotFound(c, i18n.T("file_not_found"))
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		response.NotFound(c, i18n.T("file_not_found"))
		return
	}

	displayName := storage.DisplayName(storedName)
	encoded := url.PathEscape(displayName)
	c.Header("Content-Disposition",
		`attachment; filename="`+encoded+`"; filename*=UTF-8''`+encoded)
	c.Header("Content-Type", storage.MimeTypeByName(storedName))
	c.File(path)
}

// baseURL 计算绝对下载地址的基地址
// 优先使用配置的对外地址，否则根据请求头推断
func (h *FileHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return strings.TrimRight(h.publicBaseURL, "/")
	}

	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
