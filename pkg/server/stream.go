package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/session"
)

// Websocket timings.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Message types sent on the stream.
const (
	MessageSnapshot = "snapshot"
	MessageUpdate   = "update"
	MessageError    = "error"
)

// message is one websocket frame sent to the client.
type message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// controlMessage is a client request received on the stream.
type controlMessage struct {
	Action string `json:"action"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := sess.Hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan message, 4)
	go s.readControl(ctx, cancel, conn, sess, replies)

	if err := writeMessage(conn, message{Type: MessageSnapshot, Data: state(sess.Controller.Snapshot())}); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case u, open := <-updates:
			if !open {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			sess.Touch(time.Now())
			if err := writeMessage(conn, message{Type: MessageUpdate, Data: u}); err != nil {
				return
			}
		case m := <-replies:
			if err := writeMessage(conn, m); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readControl applies client actions until the connection fails. Play runs
// on its own goroutine so a slow fetch does not stop pong handling.
func (s *Server) readControl(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *session.Session, replies chan<- message) {
	defer cancel()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed", "session", sess.ID, "error", err)
			}
			return
		}

		var cm controlMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			reply(ctx, replies, errors.New(errors.ErrCodeInvalidInput, "control messages are JSON objects with an action"))
			continue
		}

		switch cm.Action {
		case "play":
			go func() {
				if err := sess.Play(ctx); err != nil && !errors.IsTransport(err) {
					reply(ctx, replies, err)
				}
			}()
		case "pause":
			reply(ctx, replies, sess.Controller.Pause())
		case "replay":
			reply(ctx, replies, sess.Controller.Replay())
		default:
			reply(ctx, replies, errors.New(errors.ErrCodeInvalidInput, "unknown action %q", cm.Action).WithField("action"))
		}
	}
}

func reply(ctx context.Context, replies chan<- message, err error) {
	if err == nil {
		return
	}
	m := message{Type: MessageError, Data: errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
		Field: errors.GetField(err),
	}}
	select {
	case replies <- m:
	case <-ctx.Done():
	}
}

func writeMessage(conn *websocket.Conn, m message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
