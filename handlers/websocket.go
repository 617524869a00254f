package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"gridduel-backend/models"
)

type Client struct {
	Conn       *websocket.Conn
	ClientType string // "web" only for now
	writeMu    sync.Mutex
}

// send - serialised write, the hub and the read loop share the conn
func (c *Client) send(msg models.WebSocketMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(msg)
}

// ClientManager - websocket viewers of the session
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// NewClientManager - hub with a buffered broadcast queue
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan models.WebSocketMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Manager - global client hub
var Manager = NewClientManager()

// Start - hub loop
func (manager *ClientManager) Start() {
	log.Println("✅ Client manager started")
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("🔌 Client registered: %s (%s)", client.ClientType, client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.remove(conn)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

func (manager *ClientManager) remove(conn *websocket.Conn) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	if client, ok := manager.clients[conn]; ok {
		delete(manager.clients, conn)
		_ = conn.Close()
		log.Printf("🔌 Client unregistered: %s (%s)", client.ClientType, conn.RemoteAddr())
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	var failed []*websocket.Conn

	manager.mutex.RLock()
	for conn, client := range manager.clients {
		if client.ClientType != "web" {
			continue
		}
		if err := client.send(message); err != nil {
			log.Printf("⚠️  Send failed (%s): %v", client.ClientType, err)
			failed = append(failed, conn)
		}
	}
	manager.mutex.RUnlock()

	for _, conn := range failed {
		manager.remove(conn)
	}
}

// BroadcastMessage - queue a message for every viewer, dropped when the queue is full
//
// Called from the session tick, so it must never block.
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	select {
	case manager.broadcast <- msg:
	default:
		log.Printf("⚠️  Broadcast queue full, dropping %s", msg.Type)
	}
}

func (manager *ClientManager) GetClientCount() map[string]int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	count := map[string]int{
		"web": 0,
	}
	for _, client := range manager.clients {
		count[client.ClientType]++
	}
	return count
}

// decodeData - re-decode a generic message payload into v
func decodeData(data interface{}, v interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// HandleWebClientWebSocket - viewer socket: receives broadcasts, sends move and reset requests
func HandleWebClientWebSocket(c *websocket.Conn) {
	client := &Client{
		Conn:       c,
		ClientType: "web",
	}

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	welcome := fiber.Map{
		"message":      "web client connected",
		"connected_at": time.Now().Format(time.RFC3339),
	}
	if gameSession != nil {
		welcome["session_id"] = gameSession.ID
		_ = client.send(models.NewMessage(models.MessageTypeMapUpdate, gameSession.LayoutMessage()))
		_ = client.send(models.NewMessage(models.MessageTypeStatus, gameSession.Status()))
	}
	_ = client.send(models.NewMessage(models.MessageTypeSystemInfo, welcome))

	for {
		var msg models.WebSocketMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("⚠️  Web message read error: %v", err)
			break
		}

		switch msg.Type {
		case models.MessageTypeMove:
			var cmd models.MoveCommand
			if err := decodeData(msg.Data, &cmd); err != nil {
				log.Printf("⚠️  Bad move payload: %v", err)
				continue
			}
			if gameSession == nil {
				continue
			}
			result := gameSession.RequestMove(models.Position{X: cmd.X, Y: cmd.Y, Z: cmd.Z})
			_ = client.send(models.NewMessage(models.MessageTypeMoveResult, models.MoveResultData{
				Target: cmd,
				Result: string(result),
			}))

		case models.MessageTypeReset:
			var cmd models.ResetCommand
			if err := decodeData(msg.Data, &cmd); err != nil {
				log.Printf("⚠️  Bad reset payload: %v", err)
				continue
			}
			if err := resetSession(cmd); err != nil {
				log.Printf("❌ Reset failed: %v", err)
			}

		default:
			log.Printf("⚠️  Unknown message type: %s", msg.Type)
		}
	}
}
