package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/internal/session"
)

func newTestServer(t *testing.T, origins []string) (*ChatHub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := session.NewMemoryStore(10, time.Hour, logger)
	assistant := services.NewAssistant(store, providers.NewRoster(42), nil, nil, logger)
	hub := NewChatHub(assistant, origins, nil, logger)
	go hub.Run()

	router := gin.New()
	router.GET("/ws/chat/:session_id", hub.HandleWebSocket)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat/" + sessionID
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestChatHub_WelcomeAndMessage(t *testing.T) {
	hub, server := newTestServer(t, []string{"*"})
	conn := dial(t, server, "abc")

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, FrameWelcome, welcome["type"])
	assert.Equal(t, welcomeMessage, welcome["message"])

	assert.Equal(t, 1, hub.ConnectionCount())
	assert.Equal(t, 1, hub.SessionConnectionCount("abc"))

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"message": "Suggest a lineup"}))

	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, FrameMessage, reply["type"])
	assert.Equal(t, "abc", reply["session_id"])
	assert.Equal(t, services.ChatErrorResponse, reply["response"])
	assert.Equal(t, true, reply["is_lineup_suggestion"])
	assert.NotNil(t, reply["lineup_data"])
	assert.NotEmpty(t, reply["timestamp"])
}

func TestChatHub_ErrorFrames(t *testing.T) {
	_, server := newTestServer(t, []string{"*"})
	conn := dial(t, server, "abc")

	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame)) // welcome

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte("not json")))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, FrameError, frame["type"])
	assert.Contains(t, frame["message"], "invalid message")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"message": "  "}))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, FrameError, frame["type"])
	assert.Equal(t, "message is required", frame["message"])
}

func TestChatHub_DisconnectUnregisters(t *testing.T) {
	hub, server := newTestServer(t, []string{"*"})
	conn := dial(t, server, "gone")

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, 1, hub.ConnectionCount())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.SessionConnectionCount("gone"))
}

func TestChatHub_RejectsUnknownOrigin(t *testing.T) {
	_, server := newTestServer(t, []string{"http://allowed.test"})

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat/x"
	header := map[string][]string{"Origin": {"http://evil.test"}}
	_, resp, err := gorillaws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
