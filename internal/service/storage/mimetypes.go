package storage

import (
	"path/filepath"
	"strings"
)

// DefaultMimeType 未知扩展名的默认MIME类型
const DefaultMimeType = "application/octet-stream"

// mimeTypes 扩展名到MIME类型的静态映射表
// 只根据扩展名判断，不读取文件内容，与列表和下载两条路径保持一致
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".js":   "text/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".rar":  "application/vnd.rar",
	".7z":   "application/x-7z-compressed",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/vnd.microsoft.icon",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".apk":  "application/vnd.android.package-archive",
	".wasm": "application/wasm",
}

// MimeTypeByName 根据文件名的扩展名查找MIME类型
// 扩展名不区分大小写，未知扩展名返回application/octet-stream
func MimeTypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return DefaultMimeType
}
