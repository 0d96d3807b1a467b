package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/domain/events"
)

type countingObserver struct{ connected, disconnected chan struct{} }

func newCountingObserver() *countingObserver {
	return &countingObserver{connected: make(chan struct{}, 8), disconnected: make(chan struct{}, 8)}
}

func (o *countingObserver) ClientConnected()    { o.connected <- struct{}{} }
func (o *countingObserver) ClientDisconnected() { o.disconnected <- struct{}{} }

func startServer(t *testing.T, obs ConnectionObserver) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(zap.NewNop(), obs)
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(NewServer(hub, nil, zap.NewNop()).HandleWebSocket))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
		<-hub.Done()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *gorilla.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_BroadcastsEvents(t *testing.T) {
	hub, srv := startServer(t, nil)
	conn := dial(t, srv, "")

	welcome := read(t, conn)
	assert.Equal(t, "connection.established", welcome.Type)
	assert.Equal(t, 1, hub.ClientCount())

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, hub.Publish(context.Background(), events.NewDatasetSaved(valueobjects.DatasetQuestions, 7, at)))

	msg := read(t, conn)
	assert.Equal(t, events.TypeDatasetSaved, msg.Type)
	assert.Equal(t, "questions", msg.Dataset)
	assert.Equal(t, at.Unix(), msg.Timestamp)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, 7.0, data["records"])
}

func TestHub_FiltersByDataset(t *testing.T) {
	hub, srv := startServer(t, nil)
	conn := dial(t, srv, "?dataset=knowledge")
	read(t, conn)

	now := time.Now()
	require.NoError(t, hub.Publish(context.Background(), events.NewDatasetSaved(valueobjects.DatasetQuestions, 1, now)))
	require.NoError(t, hub.Publish(context.Background(), events.NewDatasetReloaded(valueobjects.DatasetKnowledge, "store", now)))

	msg := read(t, conn)
	assert.Equal(t, events.TypeDatasetReloaded, msg.Type)
	assert.Equal(t, "knowledge", msg.Dataset)
}

func TestServer_RejectsUnknownDataset(t *testing.T) {
	_, srv := startServer(t, nil)

	resp, err := http.Get(srv.URL + "?dataset=notes")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHub_TracksDisconnects(t *testing.T) {
	obs := newCountingObserver()
	hub, srv := startServer(t, obs)
	conn := dial(t, srv, "")
	read(t, conn)

	select {
	case <-obs.connected:
	case <-time.After(time.Second):
		t.Fatal("connect not observed")
	}

	conn.Close()
	select {
	case <-obs.disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect not observed")
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)
	go hub.Run()
	hub.Stop()
	<-hub.Done()

	err := hub.Publish(context.Background(), events.NewDatasetSaved(valueobjects.DatasetQuestions, 0, time.Now()))
	assert.ErrorIs(t, err, ErrHubStopped)
}
