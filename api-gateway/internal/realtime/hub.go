package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

type Hub struct {
	mirrors  map[string]*Mirror
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		mirrors: map[string]*Mirror{
			MenuChannel:   NewMirror(),
			OrdersChannel: NewMirror(),
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Hub) Channels() []string {
	return []string{MenuChannel, OrdersChannel}
}

func (h *Hub) Mirror(channel string) *Mirror {
	return h.mirrors[channel]
}

// Feed upgrades the request and streams the channel's snapshots until the
// client goes away.
func (h *Hub) Feed(channel string) http.Handler {
	mirror := h.mirrors[channel]
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Str("channel", channel).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		unsubscribe := mirror.Subscribe(func(snapshot []byte) {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
				conn.Close()
			}
		})
		defer unsubscribe()

		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
