package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ai-marketing-content-creator/modules/broker"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 로컬 UI 전용 - 모든 origin 허용
		return true
	},
}

// 연결된 브라우저
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// 서버 메트릭
type ServerMetrics struct {
	TotalConnections int       `json:"totalConnections"`
	StartTime        time.Time `json:"startTime"`
	mutex            sync.RWMutex
}

// Hub - 브로커 이벤트를 모든 브라우저에 전달
type Hub struct {
	clients map[string]*Client
	mutex   sync.RWMutex
	metrics *ServerMetrics

	// 새 연결에 보낼 현재 상태
	snapshot func() broker.Event
}

func NewHub(snapshot func() broker.Event) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		metrics:  &ServerMetrics{StartTime: time.Now()},
		snapshot: snapshot,
	}
}

// HandleWebSocket - GET /ws
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 64),
	}
	if h.snapshot != nil {
		if data, err := json.Marshal(h.snapshot()); err == nil {
			client.send <- data
		}
	}
	h.addClient(client)

	go client.writePump()
	go client.readPump(h)
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mutex.Unlock()

	h.metrics.mutex.Lock()
	h.metrics.TotalConnections++
	total := h.metrics.TotalConnections
	h.metrics.mutex.Unlock()

	log.Printf("👤 [Hub] Client %s connected (Clients: %d, Total Connections: %d)", client.id, count, total)
}

func (h *Hub) removeClient(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if client, exists := h.clients[id]; exists {
		close(client.send)
		delete(h.clients, id)
		log.Printf("👋 [Hub] Client %s left (Remaining: %d)", id, len(h.clients))
	}
}

// Broadcast - 이벤트를 모든 클라이언트에 전송. 버퍼가 찬 클라이언트는 끊음
func (h *Hub) Broadcast(ev broker.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	var slow []string
	h.mutex.RLock()
	for id, client := range h.clients {
		select {
		case client.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mutex.RUnlock()

	for _, id := range slow {
		log.Printf("🐌 [Hub] Dropping slow client %s", id)
		h.removeClient(id)
	}
}

// ClientCount - 현재 연결 수
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// 클라이언트 메시지는 연결 유지 확인용으로만 읽음
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.removeClient(c.id)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
