package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goliatone/go-formcraft/pkg/session"
)

const (
	snapshotAction = "snapshot"
	writeTimeout   = 10 * time.Second
)

// events upgrades to a websocket and streams one message per committed
// transaction, starting with the current snapshot. Clients order messages
// by seq; the initial snapshot may repeat the seq of a queued event.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("events: websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	updates, cancel := s.session.Subscribe()
	defer cancel()

	// Incoming messages are ignored; CloseRead cancels ctx when the peer
	// goes away.
	ctx := conn.CloseRead(r.Context())

	initial := session.Event{
		Seq:    s.session.Seq(),
		Action: snapshotAction,
		State:  s.session.Snapshot(),
	}
	if err := s.send(ctx, conn, initial); err != nil {
		s.logger.Debug("events: send snapshot", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case evt, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			if err := s.send(ctx, conn, evt); err != nil {
				s.logger.Debug("events: send", "seq", evt.Seq, "error", err)
				return
			}
		}
	}
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, evt session.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, evt)
}
