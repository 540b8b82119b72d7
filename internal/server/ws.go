package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	"crackit/pkg/domain"
)

// wsInbound is a frame sent by the client over the chat socket.
type wsInbound struct {
	Message string `json:"message"`
}

// websocketHandler serves /ws/chat. The client passes its bearer token
// and room as query parameters because browsers cannot set headers on
// websocket upgrades. Outbound frames are chat messages fanned out from
// the room channel; inbound frames post to the room.
func (s *Server) websocketHandler() http.Handler {
	wsServer := websocket.Server{
		Handler: websocket.Handler(s.serveChatSocket),
		// The CORS policy is permissive, so cross-origin sockets are
		// accepted too.
		Handshake: func(_ *websocket.Config, _ *http.Request) error { return nil },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authorizeSocket(r); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if strings.TrimSpace(r.URL.Query().Get("company")) == "" {
			writeError(w, http.StatusBadRequest, "company is required")
			return
		}
		if s.app.Hub() == nil {
			writeError(w, http.StatusServiceUnavailable, "chat fan-out unavailable")
			return
		}
		wsServer.ServeHTTP(w, r)
	})
}

func (s *Server) authorizeSocket(r *http.Request) (domain.User, bool) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		return s.authorize(r)
	}
	return s.app.Authenticate(token)
}

func (s *Server) serveChatSocket(conn *websocket.Conn) {
	defer conn.Close()

	r := conn.Request()
	user, ok := s.authorizeSocket(r)
	if !ok {
		return
	}
	company := strings.TrimSpace(r.URL.Query().Get("company"))

	ctx := r.Context()
	sub, err := s.app.Hub().Subscribe(ctx, company)
	if err != nil {
		slog.Error("chat subscribe failed", "company", company, "err", err)
		return
	}
	// Fan room messages out to this socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Messages() {
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := websocket.Message.Send(conn, string(payload)); err != nil {
				return
			}
		}
	}()

	// Read loop: each inbound frame is a message posted to the room. The
	// hub publish feeds it back through the subscription above.
	for {
		var raw string
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			break
		}
		var inbound wsInbound
		if err := json.Unmarshal([]byte(raw), &inbound); err != nil {
			continue
		}
		if strings.TrimSpace(inbound.Message) == "" {
			continue
		}
		if _, err := s.app.PostChatMessage(ctx, user, company, inbound.Message); err != nil {
			slog.Warn("chat post over socket failed", "company", company, "err", err)
		}
	}

	// Closing the subscription ends the fan-out goroutine.
	_ = sub.Close()
	<-done
}
