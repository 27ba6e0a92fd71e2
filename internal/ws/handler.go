package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/engine"
	"github.com/TNRProtography/questoot/internal/hub"
	"github.com/TNRProtography/questoot/internal/room"
	"github.com/TNRProtography/questoot/internal/types"
)

var codePattern = regexp.MustCompile(`^[A-Za-z]{4}$`)

// Handler upgrades /ws/{code} to a websocket, attaches the connection to
// the room for that code (creating the room on first contact) and relays
// events in and snapshots out.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !codePattern.MatchString(code) {
			http.Error(w, "invalid game code", http.StatusBadRequest)
			return
		}
		code = hub.Normalize(code)

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		rm := <-reply

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("code", code), zap.String("client", clientID))

		out := make(chan room.Snapshot, 8)
		rm.Inbox() <- room.Attach{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Detach{ClientID: clientID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writer(writeCtx, conn, out, rm.Done(), clog)

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				clog.Debug("discarding malformed message", zap.Error(err))
				continue
			}

			msg, ok := toRoomMsg(cm, code)
			if !ok {
				clog.Debug("discarding unknown event", zap.String("type", cm.Type))
				continue
			}
			rm.Inbox() <- msg
		}
	}
}

// writer drains the room's snapshots to one connection. The room closes the
// outbox when it shuts down or drops this client; either way the client is
// done receiving snapshots, so the connection is closed rather than left
// half-alive relaying events no one will answer.
func writer(ctx context.Context, conn *websocket.Conn, out <-chan room.Snapshot, roomDone <-chan struct{}, log *zap.Logger) {
	defer conn.Close(websocket.StatusGoingAway, "room closed")

	for {
		select {
		case snap, ok := <-out:
			if !ok {
				return
			}
			payload, err := json.Marshal(snap.State)
			if err != nil {
				log.Error("failed to marshal snapshot", zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				// Isolated to this connection; the room keeps broadcasting
				// to the rest and drops us once our outbox fills up.
				log.Debug("snapshot write failed", zap.Error(err))
			}

		case <-roomDone:
			return

		case <-ctx.Done():
			return
		}
	}
}

func toRoomMsg(cm types.ClientMessage, code string) (room.Msg, bool) {
	switch cm.Type {
	case "create":
		var p types.CreatePayload
		if len(cm.Payload) > 0 && json.Unmarshal(cm.Payload, &p) != nil {
			return nil, false
		}
		// The room is addressed by path; a payload naming a different room
		// is malformed.
		if p.GameCode != "" && !strings.EqualFold(p.GameCode, code) {
			return nil, false
		}
		return room.Create{}, true

	case "join":
		var p types.JoinPayload
		if json.Unmarshal(cm.Payload, &p) != nil || p.Name == "" {
			return nil, false
		}
		return room.FromClient{Cmd: engine.Command{Type: engine.CmdJoin, Name: p.Name}}, true

	case "answer":
		var p types.AnswerPayload
		if json.Unmarshal(cm.Payload, &p) != nil || p.PlayerName == "" {
			return nil, false
		}
		if p.AnswerIndex < 0 || p.AnswerIndex > 3 {
			return nil, false
		}
		return room.FromClient{Cmd: engine.Command{Type: engine.CmdAnswer, Name: p.PlayerName, AnswerIndex: p.AnswerIndex}}, true

	case "start":
		return room.Start{}, true

	default:
		return nil, false
	}
}
