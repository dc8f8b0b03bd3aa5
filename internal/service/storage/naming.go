package storage

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// FallbackName 清洗后为空时使用的占位文件名
const FallbackName = "unnamed"

// storedNameSeparator 唯一前缀与展示名之间的分隔符
const storedNameSeparator = "__"

// SanitizeFileName 清洗客户端上传的原始文件名
// 处理步骤:
//  1. 修复被按单字节编码误解的UTF-8文件名（常见的浏览器上传乱码）
//  2. 去除ASCII控制字符 (0x00-0x1F, 0x7F)
//  3. 将文件系统保留字符 <>:"/\|?* 替换为下划线
//  4. 去除首尾空白
//  5. 结果为空时返回占位名
//
// 该函数是纯函数，相同输入总是产生相同输出
func SanitizeFileName(name string) string {
	name = repairEncoding(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7F:
			// 控制字符直接丢弃
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return FallbackName
	}
	return cleaned
}

// repairEncoding 修复按latin-1误解码的UTF-8文件名
// 当每个码点都能放进单个字节、且重组出的字节序列是合法的UTF-8时，
// 说明原始字节流本来就是UTF-8，按字节重新解释即可还原
func repairEncoding(name string) string {
	raw := make([]byte, 0, len(name))
	for _, r := range name {
		if r > 0xFF {
			// 已经包含多字节字符，不是乱码
			return name
		}
		raw = append(raw, byte(r))
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return name
}

// NewStoredName 为清洗后的文件名生成唯一的存储名
// 格式: <毫秒时间戳>-<随机数>__<清洗后文件名>
// 时间戳加随机数保证并发上传同名文件也不会冲突
func NewStoredName(sanitized string) string {
	return fmt.Sprintf("%d-%d%s%s",
		time.Now().UnixMilli(), rand.Intn(1000000), storedNameSeparator, sanitized)
}

// DisplayName 从存储名还原展示用文件名
// 取第一个 "__" 之后的部分；没有分隔符时返回存储名本身
func DisplayName(storedName string) string {
	if _, display, found := strings.Cut(storedName, storedNameSeparator); found {
		return display
	}
	return storedName
}
