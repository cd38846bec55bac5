package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/services"
	jwtutil "github.com/accountability-buddy/api/pkg/jwt"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WSMessage is the frame exchanged over the chat socket.
type WSMessage struct {
	Type       string `json:"type"` // "text", "status", "typing"
	ReceiverID string `json:"receiver_id"`
	SenderID   string `json:"sender_id,omitempty"`
	Text       string `json:"text,omitempty"`
	Typing     bool   `json:"typing,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ChatHandler handles the WebSocket chat and its REST history endpoint.
type ChatHandler struct {
	Service   *services.ChatService
	JWTSecret string
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler(service *services.ChatService, jwtSecret string) *ChatHandler {
	return &ChatHandler{Service: service, JWTSecret: jwtSecret}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var (
	clients   = make(map[string]*websocket.Conn)
	clientsMu sync.Mutex
)

func broadcastStatus(userID, status string) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	for _, conn := range clients {
		conn.WriteJSON(map[string]interface{}{
			"type":    "status",
			"user_id": userID,
			"status":  status, // "online" or "offline"
		})
	}
}

// ChatWebSocketHandler upgrades the connection and relays messages
// between connected users, persisting text messages.
func (h *ChatHandler) ChatWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	logrus.WithField("userID", userID).Info("WebSocket connected")

	clientsMu.Lock()
	clients[userID] = conn
	clientsMu.Unlock()
	broadcastStatus(userID, "online")

	defer func() {
		clientsMu.Lock()
		delete(clients, userID)
		clientsMu.Unlock()
		broadcastStatus(userID, "offline")
		conn.Close()
		logrus.WithField("userID", userID).Info("WebSocket disconnected")
	}()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logrus.WithError(err).Debug("WebSocket read ended")
			break
		}

		switch msg.Type {
		case "typing":
			clientsMu.Lock()
			if receiverConn, ok := clients[msg.ReceiverID]; ok {
				receiverConn.WriteJSON(map[string]interface{}{
					"type":      "typing",
					"sender_id": userID,
					"typing":    msg.Typing,
				})
			}
			clientsMu.Unlock()

		case "text":
			senderID, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				continue
			}
			receiverID, err := primitive.ObjectIDFromHex(msg.ReceiverID)
			if err != nil {
				continue
			}

			saved, err := h.Service.SendMessage(r.Context(), &models.Message{
				SenderID:   senderID,
				ReceiverID: receiverID,
				Type:       "text",
				Text:       msg.Text,
			})
			if err != nil {
				logrus.WithError(err).Error("Failed to persist chat message")
				continue
			}

			out := WSMessage{
				Type:       "text",
				SenderID:   userID,
				ReceiverID: msg.ReceiverID,
				Text:       saved.Text,
				CreatedAt:  saved.CreatedAt.Format(time.RFC3339),
			}

			clientsMu.Lock()
			if receiverConn, ok := clients[msg.ReceiverID]; ok {
				receiverConn.WriteJSON(out)
			}
			clientsMu.Unlock()
			conn.WriteJSON(out)
		}
	}
}

// GetChatHistoryHandler returns the message history with another user.
func (h *ChatHandler) GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(w, r)
	if !ok {
		return
	}

	messages, err := h.Service.GetChat(r.Context(), claims.UserID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Failed to fetch chat history", http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}
