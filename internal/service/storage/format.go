package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// byteUnits 按1024进制递增的容量单位
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes 将字节数格式化为人类可读的字符串
// 1024进制；B以上的单位在数值小于10时保留一位小数，其余取整
// 例: 0 -> "0 B", 1024 -> "1 KB", 1536 -> "1.5 KB", 1073741824 -> "1 GB"
func FormatBytes(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	if unit > 0 && value < 10 {
		s := strconv.FormatFloat(value, 'f', 1, 64)
		s = strings.TrimSuffix(s, ".0")
		return s + " " + byteUnits[unit]
	}
	return fmt.Sprintf("%.0f %s", value, byteUnits[unit])
}
