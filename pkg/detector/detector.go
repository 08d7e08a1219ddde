package detector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"SafeDrive/pkg/wellness"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNotConfigured = errors.New("face detector URL not configured")
	ErrUnavailable   = errors.New("face detector unavailable")
	ErrClosed        = errors.New("face detector client closed")
)

// Face is a detected face box in frame coordinates. Eye boxes are relative
// to the face box.
type Face struct {
	Box  wellness.Rect
	Eyes []wellness.Rect
}

type IDetector interface {
	DetectFaces(ctx context.Context, frame []byte) ([]Face, error)
	IsConnected() bool
	Reconnect(ctx context.Context) error
	Close()
}

type Config struct {
	URL              string
	PingInterval     time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	HandshakeTimeout time.Duration
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
}

type box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type detectionResponse struct {
	Faces []struct {
		box
		Eyes []box `json:"eyes"`
	} `json:"faces"`
	Error string `json:"error,omitempty"`
}

// webSocketClient guards its state with mu, which is never held across
// network I/O. Requests are serialized through sem.
type webSocketClient struct {
	url              string
	pingInterval     time.Duration
	readTimeout      time.Duration
	writeTimeout     time.Duration
	handshakeTimeout time.Duration
	minBackoff       time.Duration
	maxBackoff       time.Duration
	log              *logrus.Logger
	sem              chan struct{}
	done             chan struct{}
	now              func() time.Time

	mu       sync.Mutex
	conn     *websocket.Conn
	closed   bool
	backoff  time.Duration
	nextDial time.Time
}

// New returns a detector client and dials the service in the background.
// A failed dial is retried on demand once the backoff has elapsed.
func New(cfg Config, log *logrus.Logger) (IDetector, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}

	client := &webSocketClient{
		url:              cfg.URL,
		pingInterval:     cfg.PingInterval,
		readTimeout:      cfg.ReadTimeout,
		writeTimeout:     cfg.WriteTimeout,
		handshakeTimeout: cfg.HandshakeTimeout,
		minBackoff:       cfg.MinBackoff,
		maxBackoff:       cfg.MaxBackoff,
		log:              log,
		sem:              make(chan struct{}, 1),
		done:             make(chan struct{}),
		now:              time.Now,
	}
	if client.pingInterval <= 0 {
		client.pingInterval = 30 * time.Second
	}
	if client.readTimeout <= 0 {
		client.readTimeout = 10 * time.Second
	}
	if client.writeTimeout <= 0 {
		client.writeTimeout = 5 * time.Second
	}
	if client.handshakeTimeout <= 0 {
		client.handshakeTimeout = 10 * time.Second
	}
	if client.minBackoff <= 0 {
		client.minBackoff = time.Second
	}
	if client.maxBackoff < client.minBackoff {
		client.maxBackoff = 30 * time.Second
	}

	go client.connectInBackground()

	return client, nil
}

func (c *webSocketClient) connectInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), c.handshakeTimeout)
	defer cancel()

	if err := c.dial(ctx); err != nil {
		c.log.WithFields(logrus.Fields{
			"url":   c.url,
			"error": err.Error(),
		}).Warn("Initial connection to face detector failed, will retry on demand")
		return
	}
	c.log.WithField("url", c.url).Info("Connected to face detector")
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Reconnect drops the current connection and dials again, ignoring any
// pending backoff.
func (c *webSocketClient) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	old := c.conn
	c.conn = nil
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}

	return c.dial(ctx)
}

func (c *webSocketClient) dial(ctx context.Context) error {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.backoff == 0 {
			c.backoff = c.minBackoff
		} else {
			c.backoff = min(c.backoff*2, c.maxBackoff)
		}
		c.nextDial = c.now().Add(c.backoff)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if c.closed {
		conn.Close()
		return ErrClosed
	}
	c.backoff = 0
	c.nextDial = time.Time{}

	// A concurrent dial won the race.
	if c.conn != nil {
		conn.Close()
		return nil
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.WithField("error", err.Error()).Warn("Error sending pong to face detector")
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	return nil
}

func (c *webSocketClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		if !c.current(conn) {
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.WithField("error", err.Error()).Warn("Ping to face detector failed, marking connection as dead")
			c.drop(conn)
			return
		}
	}
}

func (c *webSocketClient) current(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == conn
}

// connection returns the live connection, dialing when none is open and the
// backoff allows it. The bool reports whether the connection was reused.
func (c *webSocketClient) connection(ctx context.Context) (*websocket.Conn, bool, error) {
	c.mu.Lock()
	conn, closed := c.conn, c.closed
	wait := c.nextDial.Sub(c.now())
	c.mu.Unlock()

	switch {
	case closed:
		return nil, false, ErrClosed
	case conn != nil:
		return conn, true, nil
	case wait > 0:
		return nil, false, fmt.Errorf("%w: retrying in %s", ErrUnavailable, wait.Round(time.Millisecond))
	}

	if err := c.dial(ctx); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, false, ErrUnavailable
	}
	return c.conn, false, nil
}

func (c *webSocketClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()

	conn.Close()
}

func (c *webSocketClient) deadline(ctx context.Context, d time.Duration) time.Time {
	t := time.Now().Add(d)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(t) {
		return ctxDeadline
	}
	return t
}

// DetectFaces sends one JPEG frame and waits for its detection result.
// Requests are serialized so every response pairs with its frame. A reused
// connection that turns out to be dead is redialed once.
func (c *webSocketClient) DetectFaces(ctx context.Context, frame []byte) ([]Face, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()

	conn, reused, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}

	message, err := c.roundTrip(ctx, conn, frame)
	if err != nil && reused && ctx.Err() == nil && !isTimeout(err) {
		c.log.WithField("error", err.Error()).Debug("Face detector connection went stale, redialing")
		if conn, _, err = c.connection(ctx); err != nil {
			return nil, err
		}
		message, err = c.roundTrip(ctx, conn, frame)
	}
	if err != nil {
		return nil, err
	}

	var resp detectionResponse
	if err := json.Unmarshal(message, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshaling detection result: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("face detector error: %s", resp.Error)
	}

	faces := make([]Face, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		face := Face{Box: wellness.Rect{X: f.X, Y: f.Y, W: f.W, H: f.H}}
		for _, e := range f.Eyes {
			face.Eyes = append(face.Eyes, wellness.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H})
		}
		faces = append(faces, face)
	}

	c.log.WithField("faces", len(faces)).Debug("Received face detection result")

	return faces, nil
}

func (c *webSocketClient) roundTrip(ctx context.Context, conn *websocket.Conn, frame []byte) ([]byte, error) {
	_ = conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	_ = conn.SetReadDeadline(c.deadline(ctx, c.readTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error reading detection result: %w", err)
	}

	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	return message, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
