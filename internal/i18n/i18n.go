// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"ok":                    "ok",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",

			"file_missing":       "未选择文件或文件无效",
			"file_upload_failed": "文件上传失败",
			"file_save_failed":   "文件保存失败",
			"file_list_failed":   "获取文件列表失败",
			"file_not_found":     "文件未找到",
			"upload_success":     "文件上传成功",

			"ws_connected":   "已连接到文件更新通知服务",
			"ws_bad_message": "消息格式错误，应为包含type字段的JSON对象",
		},
		LangEnUS: {
			"success":               "success",
			"ok":                    "ok",
			"internal_server_error": "internal server error",
			"invalid_params":        "invalid parameters",

			"file_missing":       "no file selected or file is invalid",
			"file_upload_failed": "file upload failed",
			"file_save_failed":   "failed to save file",
			"file_list_failed":   "failed to list files",
			"file_not_found":     "file not found",
			"upload_success":     "file uploaded",

			"ws_connected":   "connected to file update notifications",
			"ws_bad_message": "malformed message, expected a JSON object with a type field",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translator ut.Translator
	language   string
	mu         sync.RWMutex
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		zhLocale := zh.New()
		enLocale := en_US.New()
		uni := ut.New(zhLocale, zhLocale, enLocale)

		translator, _ := uni.GetTranslator("zh")
		instance = &I18n{
			translator: translator,
			language:   LangZhCN,
		}
	})
	return instance
}

// SetLanguage 设置当前语言
func (i *I18n) SetLanguage(lang string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := translations[lang]; ok {
		i.language = lang
	}
}

// Translate 翻译指定的键
// 找不到翻译时返回键本身，保证调用方总能拿到可展示的文本
func (i *I18n) Translate(key string) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if msgs, ok := translations[i.language]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	// 回退到中文语言包
	if msg, ok := translations[LangZhCN][key]; ok {
		return msg
	}
	return key
}

// T 翻译指定的键（包级快捷方法）
func T(key string) string {
	return GetInstance().Translate(key)
}
