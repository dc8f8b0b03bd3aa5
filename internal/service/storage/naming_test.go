package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizeFileName 测试文件名清洗
func TestSanitizeFileName(t *testing.T) {
	t.Run("普通文件名原样保留", func(t *testing.T) {
		assert.Equal(t, "报告.pdf", SanitizeFileName("报告.pdf"))
		assert.Equal(t, "photo 2024.jpg", SanitizeFileName("photo 2024.jpg"))
	})

	t.Run("保留字符替换为下划线", func(t *testing.T) {
		assert.Equal(t, "a_b_c_d_e_f_g_h_i_.txt", SanitizeFileName(`a<b>c:d"e/f\g|h?i*.txt`))
	})

	t.Run("控制字符被去除", func(t *testing.T) {
		assert.Equal(t, "ab.txt", SanitizeFileName("a\x00\x1fb\x7f.txt"))
	})

	t.Run("首尾空白被去除", func(t *testing.T) {
		assert.Equal(t, "a.txt", SanitizeFileName("  a.txt\t"))
	})

	t.Run("空输入返回占位名", func(t *testing.T) {
		assert.Equal(t, FallbackName, SanitizeFileName(""))
		assert.Equal(t, FallbackName, SanitizeFileName("   "))
		assert.Equal(t, FallbackName, SanitizeFileName("\x01\x02"))
	})

	t.Run("结果不含保留字符和控制字符", func(t *testing.T) {
		inputs := []string{"../../etc/passwd", "con|aux?.bin", "\x1b[31mred\x1b[0m", "正常文件.zip"}
		for _, in := range inputs {
			out := SanitizeFileName(in)
			require.NotEmpty(t, out)
			assert.NotContains(t, out, "/")
			assert.False(t, strings.ContainsAny(out, `<>:"\|?*`), "输入 %q 清洗后仍含保留字符: %q", in, out)
			for _, r := range out {
				assert.False(t, r < 0x20 || r == 0x7F, "输入 %q 清洗后仍含控制字符", in)
			}
		}
	})

	t.Run("修复latin1乱码的UTF-8文件名", func(t *testing.T) {
		// "你好.txt" 的UTF-8字节被按单字节编码误解后的样子
		mangled := ""
		for _, b := range []byte("你好.txt") {
			mangled += string(rune(b))
		}
		assert.Equal(t, "你好.txt", SanitizeFileName(mangled))
	})

	t.Run("清洗是确定性的", func(t *testing.T) {
		in := `混合<名字>/2024?.dat`
		assert.Equal(t, SanitizeFileName(in), SanitizeFileName(in))
	})
}

// TestNewStoredName 测试唯一存储名生成
func TestNewStoredName(t *testing.T) {
	t.Run("同名文件生成的存储名两两不同", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			name := NewStoredName("同一个文件.txt")
			require.False(t, seen[name], "存储名冲突: %s", name)
			seen[name] = true
		}
	})

	t.Run("存储名可还原出展示名", func(t *testing.T) {
		sanitized := SanitizeFileName("我的 文档.docx")
		stored := NewStoredName(sanitized)
		assert.Equal(t, sanitized, DisplayName(stored))
	})
}

// TestDisplayName 测试展示名还原
func TestDisplayName(t *testing.T) {
	t.Run("取第一个分隔符之后的部分", func(t *testing.T) {
		assert.Equal(t, "a__b.txt", DisplayName("1700000000000-42__a__b.txt"))
	})

	t.Run("没有分隔符时返回存储名本身", func(t *testing.T) {
		assert.Equal(t, "plain.txt", DisplayName("plain.txt"))
	})
}
