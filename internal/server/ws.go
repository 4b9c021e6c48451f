package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "start" or "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type           string `json:"type"` // "response" or "error"
	SessionID      string `json:"session_id"`
	Content        string `json:"content"`
	ScriptComplete bool   `json:"script_complete,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "start":
			sess := s.sessions.Create()
			sess.Lock()
			question := sess.Controller.GetNextQuestion(r.Context())
			sess.Unlock()
			s.sendWSResponse(conn, chatResponse{
				Type:      "response",
				SessionID: sess.ID,
				Content:   question,
			})
		case "message":
			if req.Content == "" {
				s.sendWSError(conn, req.SessionID, "content is required")
				continue
			}
			sess, ok := s.sessions.Get(req.SessionID)
			if !ok {
				s.sendWSError(conn, req.SessionID, "unknown session")
				continue
			}
			sess.Lock()
			reply := sess.Controller.ProcessUserResponse(r.Context(), req.Content)
			done := sess.Controller.Done()
			sess.Unlock()
			s.sendWSResponse(conn, chatResponse{
				Type:           "response",
				SessionID:      sess.ID,
				Content:        reply,
				ScriptComplete: done,
			})
		default:
			s.sendWSError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) sendWSResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, msg string) {
	s.sendWSResponse(conn, chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   msg,
	})
}
