package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanbo/easyshare/config"
	"github.com/xuanbo/easyshare/internal/handler"
	"github.com/xuanbo/easyshare/internal/notify"
	"github.com/xuanbo/easyshare/internal/service/storage"
)

// envelope 统一响应信封的测试解析结构
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// setupServer 装配完整路由并启动测试服务器
func setupServer(t *testing.T) (*httptest.Server, *notify.Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	svc, err := storage.NewFileService(config.StorageConfig{Dir: dir})
	require.NoError(t, err)

	hub := notify.NewHub()
	fileHandler := handler.NewFileHandler(svc, hub, "")
	wsHandler := handler.NewWSHandler(hub)

	engine := gin.New()
	engine.POST("/api/upload", fileHandler.UploadFile)
	engine.GET("/api/files", fileHandler.ListFiles)
	engine.GET(storage.DownloadRoutePrefix+"/:name", fileHandler.DownloadFile)
	engine.GET("/ws", wsHandler.HandleNotify)

	server := httptest.NewServer(engine)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return server, hub, dir
}

// uploadRequest 构造multipart上传请求
func uploadRequest(t *testing.T, serverURL, fieldName, fileName, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fieldName != "" {
		part, err := writer.CreateFormFile(fieldName, fileName)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/upload", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeEnvelope 解析响应信封
func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

// TestUploadFile 测试上传接口
func TestUploadFile(t *testing.T) {
	t.Run("正常上传返回描述符", func(t *testing.T) {
		server, _, _ := setupServer(t)

		resp := uploadRequest(t, server.URL, "file", "你好 世界.txt", "file content")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, 200, env.Code)

		var desc storage.FileDescriptor
		require.NoError(t, json.Unmarshal(env.Data, &desc))
		assert.Equal(t, "你好 世界.txt", desc.DisplayName)
		assert.Equal(t, int64(len("file content")), desc.Size)
		assert.Equal(t, "12 B", desc.SizeReadable)
		assert.True(t, strings.HasPrefix(desc.DownloadURL, server.URL))
	})

	t.Run("未携带文件返回400且不写盘", func(t *testing.T) {
		server, _, dir := setupServer(t)

		resp := uploadRequest(t, server.URL, "", "", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, 400, env.Code)
		assert.NotEmpty(t, env.Msg)

		listResp, err := http.Get(server.URL + "/api/files")
		require.NoError(t, err)
		listEnv := decodeEnvelope(t, listResp)
		var files []storage.FileDescriptor
		require.NoError(t, json.Unmarshal(listEnv.Data, &files))
		assert.Empty(t, files, "存储目录应保持为空: %s", dir)
	})

	t.Run("上传触发文件更新广播", func(t *testing.T) {
		server, _, _ := setupServer(t)

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
		conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		if wsResp != nil {
			wsResp.Body.Close()
		}
		defer conn.Close()

		// 消费掉连接确认事件
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, ackData, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(ackData), "connection:ack")

		resp := uploadRequest(t, server.URL, "file", "notify-me.txt", "x")
		resp.Body.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(data), "files:updated")
		assert.Contains(t, string(data), "notify-me.txt")
	})
}

// TestListFiles 测试列表接口
func TestListFiles(t *testing.T) {
	server, _, _ := setupServer(t)

	for _, name := range []string{"first.txt", "second.txt"} {
		resp := uploadRequest(t, server.URL, "file", name, "x")
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/api/files")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "ok", env.Msg)

	var files []storage.FileDescriptor
	require.NoError(t, json.Unmarshal(env.Data, &files))
	require.Len(t, files, 2)
	assert.GreaterOrEqual(t, files[0].MTimeMs, files[1].MTimeMs)
}

// TestDownloadFile 测试下载接口
func TestDownloadFile(t *testing.T) {
	server, _, _ := setupServer(t)

	t.Run("下载恢复原始文件名", func(t *testing.T) {
		resp := uploadRequest(t, server.URL, "file", "中文 报告.pdf", "pdf bytes")
		env := decodeEnvelope(t, resp)
		var desc storage.FileDescriptor
		require.NoError(t, json.Unmarshal(env.Data, &desc))

		dlResp, err := http.Get(server.URL + desc.RelativeDownloadURL)
		require.NoError(t, err)
		defer dlResp.Body.Close()

		require.Equal(t, http.StatusOK, dlResp.StatusCode)
		body, err := io.ReadAll(dlResp.Body)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(body))
		assert.Equal(t, "application/pdf", dlResp.Header.Get("Content-Type"))

		disposition := dlResp.Header.Get("Content-Disposition")
		assert.Contains(t, disposition, "attachment")
		assert.Contains(t, disposition, url.PathEscape("中文 报告.pdf"))
	})

	t.Run("不存在的文件返回404", func(t *testing.T) {
		resp, err := http.Get(server.URL + storage.DownloadRoutePrefix + "/1700000000000-1__ghost.bin")
		require.NoError(t, err)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, 404, env.Code)
	})
}
