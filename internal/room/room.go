package room

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/engine"
	"github.com/TNRProtography/questoot/internal/questions"
	"github.com/TNRProtography/questoot/internal/store"
)

type Msg interface{ isRoomMsg() }

// Attach registers a client connection and immediately sends it the current
// snapshot.
type Attach struct {
	ClientID string
	Outbox   chan Snapshot
}

func (Attach) isRoomMsg() {}

type Detach struct{ ClientID string }

func (Detach) isRoomMsg() {}

// Create resets the game to an empty LOBBY. A second Create overwrites the
// room fully; nothing is merged.
type Create struct{}

func (Create) isRoomMsg() {}

// Start begins the game from LOBBY: the room broadcasts LOADING_QUESTIONS
// right away and fetches the question set off the loop.
type Start struct{}

func (Start) isRoomMsg() {}

// FromClient carries join/answer commands from the wire.
type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type questionsLoaded struct {
	qs  []engine.Question
	err error
}

func (questionsLoaded) isRoomMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Options carries the room's collaborators and tuning.
type Options struct {
	Store        store.Store
	Source       questions.Source
	Durations    engine.Durations
	TickInterval time.Duration
	// QuestionCount is how many questions to request per game.
	QuestionCount int
	// IdleTTL evicts a room with no connections and no activity; zero
	// disables eviction.
	IdleTTL time.Duration
	Logger  *zap.Logger
	// OnClose is called once when the room evicts itself, before the loop
	// exits.
	OnClose func(code string)
}

// Room owns one game's state. Its goroutine is the sole writer: every
// inbound event is applied one at a time in arrival order, persisted, then
// broadcast to all attached clients.
type Room struct {
	code         string
	inbox        chan Msg
	state        engine.State
	version      int
	clients      map[string]chan Snapshot
	loading      bool
	lastActivity time.Time
	opts         Options
	log          *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
}

func New(parent context.Context, code string, initial engine.State, opts Options) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:         code,
		inbox:        make(chan Msg, 64),
		state:        initial,
		clients:      make(map[string]chan Snapshot),
		lastActivity: time.Now(),
		opts:         opts,
		log:          opts.Logger.With(zap.String("code", code)),
		ctx:          ctx,
		cancel:       cancel,
	}

	go r.loop()
	return r
}

// Inbox is where the ws layer (and tests) send messages.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down. A room handle can outlive the
// room (it may evict itself between a registry lookup and the next
// message), so anyone waiting on a reply must select on Done as well.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-ticker.C:
			if evicted := r.handleTick(); evicted {
				return
			}

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Attach:
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: r.version, State: r.state}
				r.lastActivity = time.Now()

			case Detach:
				delete(r.clients, msg.ClientID)

			case Create:
				r.commit(engine.NewState(r.code, time.Now()))

			case Start:
				r.handleStart()

			case FromClient:
				ns, err := engine.Apply(r.state, msg.Cmd, r.opts.Durations, time.Now())
				if err != nil {
					// Silent rejection: no reply, the next broadcast shows
					// the unchanged state.
					r.log.Debug("event rejected",
						zap.String("type", string(msg.Cmd.Type)), zap.Error(err))
					break
				}
				r.commit(ns)

			case questionsLoaded:
				r.handleQuestionsLoaded(msg)

			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleStart() {
	if r.loading {
		return
	}
	ns, err := engine.Apply(r.state, engine.Command{Type: engine.CmdStartLoading}, r.opts.Durations, time.Now())
	if err != nil {
		r.log.Debug("start rejected", zap.Error(err))
		return
	}
	// Broadcast the loading phase before the fetch so clients get feedback
	// during the wait.
	if !r.commit(ns) {
		return
	}
	r.loading = true

	go func() {
		qs, err := r.opts.Source.Fetch(r.ctx, r.opts.QuestionCount)
		select {
		case r.inbox <- questionsLoaded{qs: qs, err: err}:
		case <-r.ctx.Done():
		}
	}()
}

func (r *Room) handleQuestionsLoaded(msg questionsLoaded) {
	r.loading = false
	if msg.err != nil {
		r.log.Warn("question load failed, returning to lobby", zap.Error(msg.err))
		ns, err := engine.Apply(r.state, engine.Command{Type: engine.CmdLoadFailed}, r.opts.Durations, time.Now())
		if err == nil {
			r.commit(ns)
		}
		return
	}

	qs := msg.qs
	rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })

	ns, err := engine.Apply(r.state,
		engine.Command{Type: engine.CmdQuestionsLoaded, Questions: qs},
		r.opts.Durations, time.Now())
	if err != nil {
		r.log.Warn("could not enter question phase", zap.Error(err))
		return
	}
	r.commit(ns)
}

// handleTick advances an expired phase, or evicts the room once it has been
// idle with no connections for the configured TTL. Reports whether the room
// evicted itself and the loop should exit.
func (r *Room) handleTick() bool {
	ns, err := engine.Apply(r.state, engine.Command{Type: engine.CmdTick}, r.opts.Durations, time.Now())
	if err == nil {
		r.commit(ns)
		return false
	}

	if r.opts.IdleTTL > 0 && len(r.clients) == 0 && !r.loading &&
		time.Since(r.lastActivity) >= r.opts.IdleTTL {
		r.evict()
		return true
	}
	return false
}

func (r *Room) evict() {
	r.log.Info("room idle, evicting")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := r.opts.Store.DeleteGame(ctx, r.code); err != nil {
		r.log.Error("failed to delete evicted game", zap.Error(err))
	}
	cancel()
	if r.opts.OnClose != nil {
		r.opts.OnClose(r.code)
	}
	r.shutdown()
}

// commit persists the successor state, then makes it current and broadcasts
// it. A persist failure drops the mutation entirely so clients never see
// state that would not survive a restart.
func (r *Room) commit(ns engine.State) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := r.opts.Store.SaveGame(ctx, r.code, ns)
	cancel()
	if err != nil {
		r.log.Error("persist failed, dropping mutation", zap.Error(err))
		return false
	}

	r.state = ns
	r.version++
	r.lastActivity = time.Now()
	r.broadcast(Snapshot{Version: r.version, State: r.state})
	return true
}

func (r *Room) broadcast(snap Snapshot) {
	for id, ch := range r.clients {
		select {
		case ch <- snap:
		default:
			// Client can't keep up; drop it rather than stall the room.
			r.log.Warn("dropping slow client", zap.String("client", id))
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()

	// Answer whatever queued up behind the shutdown so a caller holding a
	// stale handle is not left waiting on a loop that is gone. Anything
	// arriving later is covered by the closed Done channel.
	for {
		select {
		case m := <-r.inbox:
			switch msg := m.(type) {
			case Attach:
				close(msg.Outbox)
			case GetState:
				msg.Reply <- View{Version: r.version, State: r.state}
			}
		default:
			return
		}
	}
}
