package monitoringHandler

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"SafeDrive/internal/api/monitoring"
	monitoringService "SafeDrive/internal/api/monitoring/service"
	"SafeDrive/internal/middleware"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/response"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxReadTimeout  = 60 * time.Second
	maxWriteTimeout = 10 * time.Second
	frameTimeout    = 10 * time.Second

	// A base64 frame at the decoder's size cap plus the JSON envelope.
	maxMessageSize = 8 * 1024 * 1024
)

func (h *MonitoringHandler) handleMonitorWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	ctx, cancel := context.WithCancel(contextPkg.WithRequestID(context.Background(), requestID))
	defer cancel()

	session, err := h.monitoringService.OpenSession(ctx)
	if err != nil {
		_ = h.writeJSON(c, monitoring.StatusResponse{
			Status:  monitoring.StatusError,
			Message: monitoring.ErrInternalServerError.Error(),
		})
		return
	}
	defer h.monitoringService.CloseSession(session)

	logger := h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
	})

	c.SetReadLimit(maxMessageSize)
	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Monitor WebSocket error: %v", err)
			} else {
				logger.Info("Monitor WebSocket connection closed")
			}
			break
		}

		var reply interface{}
		switch messageType {
		case websocket.TextMessage:
			reply = h.handleMessage(ctx, session, message)
		case websocket.BinaryMessage:
			reply = h.handleFrame(ctx, session, base64.StdEncoding.EncodeToString(message))
		default:
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		if err := h.writeJSON(c, reply); err != nil {
			logger.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *MonitoringHandler) handleMessage(ctx context.Context, session *monitoringService.Session, message []byte) interface{} {
	var msg monitoring.StreamMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return monitoring.StatusResponse{
			Status:  monitoring.StatusError,
			Message: "invalid message format",
		}
	}

	switch msg.Type {
	case monitoring.MessageTypePing:
		return monitoring.StatusResponse{Type: monitoring.MessageTypePong}
	case monitoring.MessageTypeVideoFrame:
		return h.handleFrame(ctx, session, msg.Frame)
	default:
		return monitoring.StatusResponse{
			Status:  monitoring.StatusError,
			Message: monitoring.ErrUnsupportedMessage.Error(),
		}
	}
}

func (h *MonitoringHandler) handleFrame(ctx context.Context, session *monitoringService.Session, frame string) interface{} {
	c, cancel := context.WithTimeout(ctx, frameTimeout)
	defer cancel()

	result, err := h.monitoringService.ProcessFrame(c, session, frame)
	if err == nil {
		return result
	}

	if errors.Is(err, monitoring.ErrNoFaceDetected) {
		return monitoring.StatusResponse{
			Status:    monitoring.StatusNoFaceDetected,
			SessionID: session.ID,
			Timestamp: time.Now().Format(time.RFC3339),
		}
	}

	h.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": session.ID,
		"error":      err.Error(),
	}).Warn("Frame processing failed")

	return monitoring.StatusResponse{
		Status:    monitoring.StatusError,
		SessionID: session.ID,
		Message:   clientMessage(err),
	}
}

// clientMessage keeps wrapped details such as upstream addresses in the log.
func clientMessage(err error) string {
	var respErr *response.Error
	switch {
	case errors.As(err, &respErr):
		return respErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "frame processing timed out"
	default:
		return monitoring.ErrInternalServerError.Error()
	}
}

func (h *MonitoringHandler) writeJSON(c *websocket.Conn, v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(maxWriteTimeout)); err != nil {
		return err
	}
	if err := c.WriteJSON(v); err != nil {
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}
