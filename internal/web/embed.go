// Package web 内嵌静态页面资源
package web

import (
	"embed"
)

//go:embed static
var staticFS embed.FS

// IndexHTML 返回内嵌的首页内容
func IndexHTML() []byte {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// 资源在编译期打包，读取失败说明构建产物损坏
		panic("内嵌首页资源缺失: " + err.Error())
	}
	return data
}
