package hub

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/engine"
	"github.com/TNRProtography/questoot/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for a code, creating it on first contact.
// Codes are case-insensitive and normalized to uppercase.
type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

// GetRoom returns the room for a code, or nil if none exists.
type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub maps each game code to exactly one live room. Like the rooms it
// manages, it is an actor: one goroutine owns the map.
type Hub struct {
	inbox    chan HubMsg
	rooms    map[string]*room.Room
	roomOpts room.Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, roomOpts room.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    roomOpts.Logger,
		ctx:    ctx,
		cancel: cancel,
	}
	if roomOpts.OnClose == nil {
		// Self-evicting rooms unregister themselves.
		roomOpts.OnClose = func(code string) {
			select {
			case h.inbox <- RemoveRoom{Code: code}:
			case <-ctx.Done():
			}
		}
	}
	h.roomOpts = roomOpts
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Normalize maps a raw code to its registry key.
func Normalize(code string) string { return strings.ToUpper(code) }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				code := Normalize(msg.Code)
				if rm := h.rooms[code]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := room.New(h.ctx, code, h.initialState(code), h.roomOpts)
				h.rooms[code] = rm
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[Normalize(msg.Code)]

			case RemoveRoom:
				delete(h.rooms, Normalize(msg.Code))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// initialState seeds a new room from the store when a snapshot survives
// from before a restart, and starts a fresh lobby otherwise.
func (h *Hub) initialState(code string) engine.State {
	ctx, cancel := context.WithTimeout(h.ctx, 5*time.Second)
	defer cancel()

	s, ok, err := h.roomOpts.Store.LoadGame(ctx, code)
	if err != nil {
		h.log.Error("failed to load persisted game", zap.String("code", code), zap.Error(err))
	}
	if !ok || err != nil {
		return engine.NewState(code, time.Now())
	}
	h.log.Info("resuming persisted game", zap.String("code", code))
	return s
}

func (h *Hub) shutdown() {
	for code, rm := range h.rooms {
		rm.Inbox() <- room.Shutdown{}
		delete(h.rooms, code)
	}
	h.cancel()
}
