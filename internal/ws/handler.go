// Package ws adapts a running battle to a websocket connection, the
// embedding-layer collaborator spec §5 describes but keeps out of the
// engine core: one connection drives and spectates exactly one battle,
// auto-resolving every request itself since the demo has no human client
// on the other end of the wire.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/embercore/battlecore/internal/battlelog"
	"github.com/embercore/battlecore/internal/dataapi"
	"github.com/embercore/battlecore/internal/diagnostics"
	"github.com/embercore/battlecore/internal/model"
	"github.com/embercore/battlecore/internal/registry"
	"github.com/embercore/battlecore/internal/setup"
	"github.com/embercore/battlecore/internal/turn"
)

// optionsReadTimeout bounds how long Handle waits for an opening
// battle-options message before falling back to its configured default.
const optionsReadTimeout = 2 * time.Second

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Logger   *log.Logger
	Store    dataapi.Store
	Registry *registry.Registry
	Defaults model.BattleOptions

	// Diag, if set, is wired into every battle's turn.Loop so dispatch
	// vetoes, scheduler reorders, and the other operator-facing events
	// events.go declares are reported as connections come and go.
	Diag diagnostics.Publisher
}

// Handler upgrades incoming HTTP requests to websockets and streams one
// battle's public log to each connection.
type Handler struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	store    dataapi.Store
	registry *registry.Registry
	defaults model.BattleOptions
	diag     diagnostics.Publisher
}

// NewHandler constructs a Handler from cfg, defaulting Logger to log.Default().
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:   logger,
		store:    cfg.Store,
		registry: cfg.Registry,
		defaults: cfg.Defaults,
		diag:     cfg.Diag,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades r and drives one battle to completion on conn, streaming
// battlelog.Envelope JSON frames as they're produced. The first incoming
// text message, if any, is parsed as a model.BattleOptions request and
// replaces the handler's default matchup; anything malformed or absent
// falls back to the default.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("battlecore: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	opts := h.requestedOptions(conn)

	ctx := r.Context()
	loop, err := setup.Build(ctx, opts, h.registry, h.store)
	if err != nil {
		h.writeError(conn, err)
		return
	}
	if h.diag != nil {
		loop.SetDiagnostics(h.diag)
	}
	if err := loop.Start(ctx); err != nil {
		h.writeError(conn, err)
		return
	}

	sent := 0
	if !h.flush(conn, loop.Log, &sent) {
		return
	}
	for !loop.Battle.Ended {
		autoDecide(loop)
		if err := loop.Continue(ctx); err != nil {
			h.writeError(conn, err)
			return
		}
		if !h.flush(conn, loop.Log, &sent) {
			return
		}
	}
}

func (h *Handler) requestedOptions(conn *websocket.Conn) model.BattleOptions {
	conn.SetReadDeadline(time.Now().Add(optionsReadTimeout))
	_, payload, err := conn.ReadMessage()
	conn.SetReadDeadline(time.Time{})
	if err != nil || len(payload) == 0 {
		return h.defaults
	}
	var requested model.BattleOptions
	if jsonErr := json.Unmarshal(payload, &requested); jsonErr != nil || len(requested.Sides) < 2 {
		if jsonErr != nil {
			h.logger.Printf("battlecore: ignoring malformed battle-options payload: %v", jsonErr)
		}
		return h.defaults
	}
	return requested
}

func (h *Handler) flush(conn *websocket.Conn, l *battlelog.Log, sent *int) bool {
	envelopes := l.PublicEnvelopes()
	for _, env := range envelopes[*sent:] {
		data, err := json.Marshal(env)
		if err != nil {
			h.logger.Printf("battlecore: marshal envelope: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("battlecore: write failed: %v", err)
			return false
		}
	}
	*sent = len(envelopes)
	return true
}

func (h *Handler) writeError(conn *websocket.Conn, err error) {
	h.logger.Printf("battlecore: %v", err)
	payload, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	conn.WriteMessage(websocket.TextMessage, payload)
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
}

// autoDecide submits the first legal move or switch for every player with
// an outstanding request, so a connection with no live client on the other
// end still drives the battle to completion. A real deployment replaces
// this with a dataapi.DecisionMaker or human SubmitChoice calls instead.
func autoDecide(l *turn.Loop) {
	for _, side := range l.Battle.Sides {
		for _, player := range side.Players {
			if !player.NeedsChoice() {
				continue
			}
			directive := directiveFor(player.Request)
			// ParseChoice/Validate failures here would be a bug in
			// directiveFor, not a user input error; SubmitChoice leaves the
			// request outstanding if something is wrong, so the loop simply
			// never completes rather than panicking.
			_ = l.SubmitChoice(player.ID, directive)
		}
	}
}

func directiveFor(req *model.Request) string {
	switch req.Kind {
	case model.RequestTurn:
		return turnDirective(req)
	case model.RequestSwitch:
		return switchDirective(req)
	case model.RequestTeamOrder:
		return teamOrderDirective(req)
	default:
		return "pass"
	}
}

func turnDirective(req *model.Request) string {
	slots := append([]model.SlotRequest(nil), req.Slots...)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })

	directives := make([]string, 0, len(slots))
	for _, slot := range slots {
		directives = append(directives, directiveForSlot(slot))
	}
	return joinDirectives(directives)
}

func directiveForSlot(slot model.SlotRequest) string {
	if slot.MustRecharge {
		return "pass"
	}
	for _, mv := range slot.Moves {
		if mv.Disabled || mv.PP <= 0 {
			continue
		}
		return "move " + strconv.Itoa(mv.Slot)
	}
	if slot.CanSwitch && len(slot.LegalSwitches) > 0 {
		return "switch " + strconv.Itoa(slot.LegalSwitches[0].TeamIndex)
	}
	return "pass"
}

func switchDirective(req *model.Request) string {
	if len(req.LegalSwitches) == 0 {
		return "pass"
	}
	return "switch " + strconv.Itoa(req.LegalSwitches[0].TeamIndex)
}

func teamOrderDirective(req *model.Request) string {
	order := make([]string, len(req.TeamMembers))
	for i := range req.TeamMembers {
		order[i] = strconv.Itoa(i + 1)
	}
	return "team " + strings.Join(order, " ")
}

func joinDirectives(directives []string) string {
	return strings.Join(directives, "; ")
}
