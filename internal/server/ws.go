package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/w40k-wounds/internal/models"
	"github.com/pefman/w40k-wounds/internal/session"
)

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GET /ws
//
// Each connection owns one set of inputs. Every accepted "set", "toggle" or
// "reset" recomputes and pushes a "state" message before the next client
// message is read. "get" re-sends the current state unchanged.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws: upgrade failed", zap.Error(err))
		return
	}
	id := uuid.NewString()
	log := s.logger.With(zap.String("session", id))
	log.Info("ws: connect", zap.String("from", r.RemoteAddr))

	defer func() {
		_ = conn.Close()
		log.Info("ws: closed")
	}()

	send := func(m models.WsMsg) bool {
		if err := conn.WriteJSON(m); err != nil {
			log.Warn("ws: write error", zap.Error(err))
			return false
		}
		return true
	}

	if !send(models.WsMsg{Type: "you", Data: map[string]string{"id": id}}) {
		return
	}

	var pending []session.Snapshot
	inputs := session.NewInputs(func(snap session.Snapshot) {
		s.stats.Record(snap.Profile, snap.Modifiers, snap.Breakdown.ExpectedWounds)
		pending = append(pending, snap)
	})

	flush := func() bool {
		for _, snap := range pending {
			if !send(models.WsMsg{Type: "state", Data: models.NewStateData(snap)}) {
				return false
			}
		}
		pending = pending[:0]
		return true
	}
	if !flush() {
		return
	}

	for {
		var in clientIn
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("ws: read error", zap.Error(err))
			}
			return
		}
		log.Debug("ws: recv", zap.String("type", in.Type))

		var cerr error
		switch in.Type {
		case "set":
			var d models.SetData
			if cerr = json.Unmarshal(in.Data, &d); cerr == nil {
				cerr = inputs.Set(d.Field, d.Value)
			}
		case "toggle":
			var d models.ToggleData
			if cerr = json.Unmarshal(in.Data, &d); cerr == nil {
				cerr = inputs.Toggle(d.Modifier, d.On)
			}
		case "reset":
			inputs.Reset()
		case "get":
			pending = append(pending, inputs.Snapshot())
		default:
			cerr = errUnknownMessage(in.Type)
		}

		if cerr != nil {
			if !send(models.WsMsg{Type: "error", Data: map[string]string{"message": cerr.Error()}}) {
				return
			}
			// rejected input leaves the state unchanged; echo it so the client can resync
			pending = append(pending, inputs.Snapshot())
		}
		if !flush() {
			return
		}
	}
}

type errUnknownMessage string

func (e errUnknownMessage) Error() string { return "unknown message type " + string(e) }
