// Package storage 提供文件存储相关的业务逻辑
// 以本地目录作为唯一数据源：不维护任何内存索引或元数据库，
// 文件大小、修改时间等元数据全部在读取时从文件系统实时获取
package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuanbo/easyshare/config"
	apperrors "github.com/xuanbo/easyshare/internal/errors"
	"github.com/xuanbo/easyshare/internal/logger"
)

// DownloadRoutePrefix 静态下载路由前缀
const DownloadRoutePrefix = "/fileList"

// FileDescriptor 文件描述符
// 列表接口、上传响应和通知事件共用的文件元数据结构
type FileDescriptor struct {
	// FileName 磁盘上的存储名（含唯一前缀）
	FileName string `json:"filename"`
	// DisplayName 展示用的原始文件名
	DisplayName string `json:"displayName"`
	// Size 文件大小（字节）
	Size int64 `json:"size"`
	// SizeReadable 人类可读的文件大小，如 "1.5 MB"
	SizeReadable string `json:"sizeReadable"`
	// MimeType 根据扩展名推断的MIME类型
	MimeType string `json:"mimeType"`
	// MTime 最后修改时间
	MTime time.Time `json:"mtime"`
	// MTimeMs 最后修改时间的毫秒时间戳，列表按此字段降序排序
	MTimeMs int64 `json:"mtimeMs"`
	// DownloadURL 绝对下载地址
	DownloadURL string `json:"downloadUrl"`
	// RelativeDownloadURL 相对下载地址
	RelativeDownloadURL string `json:"relativeDownloadUrl"`
}

// FileService 文件存储服务接口
type FileService interface {
	// SaveFile 保存上传的文件
	// 参数:
	//   originalName - 客户端提供的原始文件名
	//   src - 文件数据流
	//   baseURL - 构造绝对下载地址用的基地址
	// 返回:
	//   *FileDescriptor - 保存后的文件描述符
	//   error - 错误信息
	// 功能:
	//   - 清洗原始文件名并生成唯一存储名
	//   - 先写临时文件再原子重命名，中断的上传不会留下半成品
	SaveFile(originalName string, src io.Reader, baseURL string) (*FileDescriptor, error)

	// ListFiles 枚举存储目录下的全部文件
	// 按修改时间降序排序；隐藏文件（以.开头）被排除；
	// 枚举后无法stat的条目（如刚被删除）静默跳过
	ListFiles(baseURL string) ([]*FileDescriptor, error)

	// Describe 为指定存储名构建文件描述符
	Describe(storedName string, baseURL string) (*FileDescriptor, error)

	// FilePath 返回存储名对应的磁盘路径
	// 拒绝包含路径分隔符或".."的名字，防止目录穿越
	FilePath(storedName string) (string, error)

	// Dir 返回存储目录路径
	Dir() string
}

// fileService 文件存储服务实现
type fileService struct {
	dir           string // 存储目录
	maxUploadSize int64  // 单次上传大小上限，0表示不限制
}

// NewFileService 创建文件存储服务实例
// 存储目录不存在时自动创建
func NewFileService(cfg config.StorageConfig) (FileService, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录 %s 失败: %w", cfg.Dir, err)
	}

	logger.Infof("文件存储服务初始化完成，存储目录: %s", cfg.Dir)

	return &fileService{
		dir:           cfg.Dir,
		maxUploadSize: cfg.MaxUploadSize,
	}, nil
}

// SaveFile 保存上传的文件
func (s *fileService) SaveFile(originalName string, src io.Reader, baseURL string) (*FileDescriptor, error) {
	sanitized := SanitizeFileName(originalName)
	storedName := NewStoredName(sanitized)
	destPath := filepath.Join(s.dir, storedName)

	// 临时文件以.开头，列表枚举时会被当作隐藏文件跳过
	tempFile, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileSaveFailed, err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	written, err := io.Copy(tempFile, src)
	if cerr := tempFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileSaveFailed, err)
	}

	if s.maxUploadSize > 0 && written > s.maxUploadSize {
		return nil, apperrors.NewWithMessage(apperrors.ErrFileUploadFailed,
			fmt.Sprintf("文件大小 %d 超过上限 %d", written, s.maxUploadSize))
	}

	// 同一目录内rename是原子操作
	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileSaveFailed, err)
	}

	logger.Infof("文件已保存: %s (原始名: %s, %d 字节)", storedName, originalName, written)

	return s.Describe(storedName, baseURL)
}

// ListFiles 枚举存储目录下的全部文件
func (s *fileService) ListFiles(baseURL string) ([]*FileDescriptor, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Errorf("枚举存储目录 %s 失败: %v", s.dir, err)
		return nil, apperrors.Wrap(apperrors.ErrFileListFailed, err)
	}

	files := make([]*FileDescriptor, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// 枚举和stat之间文件可能被移走，跳过即可
			logger.Debugf("跳过无法stat的条目 %s: %v", name, err)
			continue
		}
		files = append(files, s.describe(name, info, baseURL))
	}

	// 按修改时间降序；时间相同的条目保持枚举顺序（顺序不作保证）
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].MTimeMs > files[j].MTimeMs
	})

	return files, nil
}

// Describe 为指定存储名构建文件描述符
func (s *fileService) Describe(storedName string, baseURL string) (*FileDescriptor, error) {
	path, err := s.FilePath(storedName)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrFileNotFound, err)
	}
	return s.describe(storedName, info, baseURL), nil
}

// FilePath 返回存储名对应的磁盘路径
func (s *fileService) FilePath(storedName string) (string, error) {
	if storedName == "" ||
		strings.ContainsAny(storedName, `/\`) ||
		strings.Contains(storedName, "..") {
		return "", apperrors.New(apperrors.ErrFileNotFound)
	}
	return filepath.Join(s.dir, storedName), nil
}

// Dir 返回存储目录路径
func (s *fileService) Dir() string {
	return s.dir
}

// describe 根据磁盘stat结果构建文件描述符
func (s *fileService) describe(storedName string, info os.FileInfo, baseURL string) *FileDescriptor {
	relative := DownloadRoutePrefix + "/" + url.PathEscape(storedName)
	mtime := info.ModTime()

	return &FileDescriptor{
		FileName:            storedName,
		DisplayName:         DisplayName(storedName),
		Size:                info.Size(),
		SizeReadable:        FormatBytes(info.Size()),
		MimeType:            MimeTypeByName(storedName),
		MTime:               mtime,
		MTimeMs:             mtime.UnixMilli(),
		DownloadURL:         strings.TrimRight(baseURL, "/") + relative,
		RelativeDownloadURL: relative,
	}
}
