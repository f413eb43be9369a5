package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"mmpm/internal/ports"
)

// Events exchanged with the dashboard's control module over the websocket.
const (
	eventGetActiveModules = "get_active_modules"
	eventHideModules      = "hide_modules"
	eventShowModules      = "show_modules"

	eventActiveModules = "ACTIVE_MODULES"
	eventModulesHidden = "MODULES_HIDDEN"
	eventModulesShown  = "MODULES_SHOWN"
)

// SocketBridge talks to a running dashboard over its websocket. Each request
// opens a fresh connection, emits one event, waits for the matching terminal
// event, and disconnects.
type SocketBridge struct {
	URI    string
	Dialer *websocket.Dialer
}

func NewSocketBridge(uri string) SocketBridge {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	return SocketBridge{URI: uri, Dialer: &dialer}
}

type bridgeEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (b SocketBridge) ActiveModules(ctx context.Context) ([]ports.ActiveModule, error) {
	payload, err := b.request(ctx, eventGetActiveModules, nil, eventActiveModules)
	if err != nil {
		return nil, err
	}
	var modules []ports.ActiveModule
	if err := json.Unmarshal(payload, &modules); err != nil {
		return nil, bridgeError("unexpected active-modules payload", err)
	}
	// The dashboard occasionally reports a module twice; keep the first.
	seen := map[string]struct{}{}
	unique := modules[:0]
	for _, module := range modules {
		if _, dup := seen[module.Name]; dup {
			continue
		}
		seen[module.Name] = struct{}{}
		unique = append(unique, module)
	}
	return unique, nil
}

func (b SocketBridge) HideModules(ctx context.Context, names []string) ([]string, error) {
	return b.visibility(ctx, eventHideModules, eventModulesHidden, names)
}

func (b SocketBridge) ShowModules(ctx context.Context, names []string) ([]string, error) {
	return b.visibility(ctx, eventShowModules, eventModulesShown, names)
}

func (b SocketBridge) visibility(ctx context.Context, event string, terminal string, names []string) ([]string, error) {
	payload, err := b.request(ctx, event, names, terminal)
	if err != nil {
		return nil, err
	}
	var response struct {
		Fails []string `json:"fails"`
	}
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, bridgeError("unexpected visibility payload", err)
	}
	return response.Fails, nil
}

// request connects, emits one event and blocks until the terminal event
// arrives or the context expires. Unrelated events received in the meantime
// are logged and skipped.
func (b SocketBridge) request(ctx context.Context, event string, data any, terminal string) (json.RawMessage, error) {
	conn, _, err := b.Dialer.DialContext(ctx, b.URI, nil)
	if err != nil {
		return nil, bridgeError("failed to connect to the dashboard websocket; is the websocket URI configured correctly?", err)
	}
	defer conn.Close()
	log.Info().Str("uri", b.URI).Str("event", event).Msg("connected to dashboard websocket")

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, bridgeError("failed to encode request", err)
	}
	if err := conn.WriteJSON(bridgeEnvelope{Event: event, Data: encoded}); err != nil {
		return nil, bridgeError("failed to emit request", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	}

	for {
		var envelope bridgeEnvelope
		if err := conn.ReadJSON(&envelope); err != nil {
			return nil, bridgeError("connection closed before a response arrived", err)
		}
		if envelope.Event == terminal {
			return envelope.Data, nil
		}
		log.Debug().Str("event", envelope.Event).Msg("ignoring unrelated websocket event")
	}
}

func bridgeError(msg string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(cause)
}

var _ ports.StatusBridge = SocketBridge{}
