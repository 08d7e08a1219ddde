package detector

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SafeDrive/pkg/log"
	"SafeDrive/pkg/wellness"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetectorServer(t *testing.T, reply func(frame []byte) string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			mt, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			assert.Equal(t, websocket.BinaryMessage, mt)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply(frame))); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDetectFacesParsesBoxes(t *testing.T) {
	srv := newDetectorServer(t, func(frame []byte) string {
		assert.Equal(t, "jpeg", string(frame))
		return `{"faces":[{"x":100,"y":50,"w":80,"h":80,"eyes":[{"x":10,"y":20,"w":20,"h":8},{"x":50,"y":20,"w":20,"h":8}]}]}`
	})
	defer srv.Close()

	d, err := New(Config{URL: wsURL(srv)}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	faces, err := d.DetectFaces(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, wellness.Rect{X: 100, Y: 50, W: 80, H: 80}, faces[0].Box)
	assert.Equal(t, []wellness.Rect{{X: 10, Y: 20, W: 20, H: 8}, {X: 50, Y: 20, W: 20, H: 8}}, faces[0].Eyes)
	assert.True(t, d.IsConnected())
}

func TestDetectFacesNoFaces(t *testing.T) {
	srv := newDetectorServer(t, func([]byte) string { return `{"faces":[]}` })
	defer srv.Close()

	d, err := New(Config{URL: wsURL(srv)}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	faces, err := d.DetectFaces(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDetectFacesServiceError(t *testing.T) {
	srv := newDetectorServer(t, func([]byte) string { return `{"faces":[],"error":"cascade not loaded"}` })
	defer srv.Close()

	d, err := New(Config{URL: wsURL(srv)}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	_, err = d.DetectFaces(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cascade not loaded")
}

func TestDetectFacesUnreachable(t *testing.T) {
	d, err := New(Config{URL: "ws://127.0.0.1:1/detect", ReadTimeout: time.Second}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	_, err = d.DetectFaces(context.Background(), []byte("x"))
	assert.Error(t, err)
	assert.False(t, d.IsConnected())
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{}, log.NewTestLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// silentListener accepts TCP connections and never answers the handshake.
func silentListener(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			conn.Close()
		}
	})

	return "ws://" + ln.Addr().String() + "/detect"
}

func TestDetectFacesHonorsContextWhenHandshakeHangs(t *testing.T) {
	d, err := New(Config{
		URL:              silentListener(t),
		HandshakeTimeout: 5 * time.Second,
		MinBackoff:       time.Minute,
	}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	healthCheck := make(chan time.Duration, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		start := time.Now()
		d.IsConnected()
		healthCheck <- time.Since(start)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = d.DetectFaces(ctx, []byte("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case elapsed := <-healthCheck:
		assert.Less(t, elapsed, 100*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("IsConnected blocked while a dial was in flight")
	}

	start = time.Now()
	_, err = d.DetectFaces(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.False(t, d.IsConnected())
}

func TestDetectFacesWaitsForBusyClientWithinContext(t *testing.T) {
	d, err := New(Config{URL: silentListener(t), HandshakeTimeout: 5 * time.Second}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	slow, cancelSlow := context.WithTimeout(context.Background(), time.Second)
	defer cancelSlow()
	go func() { _, _ = d.DetectFaces(slow, []byte("x")) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = d.DetectFaces(ctx, []byte("y"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDetectFacesRedialsAfterServerDrop(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connections.Add(1)

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"faces":[{"x":1,"y":2,"w":3,"h":4}]}`))
	}))
	defer srv.Close()

	d, err := New(Config{URL: wsURL(srv)}, log.NewTestLogger())
	require.NoError(t, err)
	defer d.Close()

	require.Eventually(t, d.IsConnected, 2*time.Second, 10*time.Millisecond)

	faces, err := d.DetectFaces(context.Background(), []byte("first"))
	require.NoError(t, err)
	require.Len(t, faces, 1)

	faces, err = d.DetectFaces(context.Background(), []byte("second"))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, wellness.Rect{X: 1, Y: 2, W: 3, H: 4}, faces[0].Box)
	assert.EqualValues(t, 2, connections.Load())
}

func TestKeepAlivePingsUntilClosed(t *testing.T) {
	var pings atomic.Int32
	var serverDone atomic.Bool
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		defer serverDone.Store(true)

		conn.SetPingHandler(func(appData string) error {
			pings.Add(1)
			return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	d, err := New(Config{URL: wsURL(srv), PingInterval: 20 * time.Millisecond}, log.NewTestLogger())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return pings.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, d.IsConnected())

	d.Close()
	assert.False(t, d.IsConnected())
	require.Eventually(t, serverDone.Load, 2*time.Second, 10*time.Millisecond)

	sent := pings.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, sent, pings.Load())

	assert.ErrorIs(t, d.Reconnect(context.Background()), ErrClosed)
	_, err = d.DetectFaces(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
}
