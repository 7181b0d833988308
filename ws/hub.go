package ws

// Hub bertanggung jawab untuk:
// menyimpan koneksi browser dashboard, menerima event dari service
// (perubahan state, notifikasi, nada), dan mem-broadcast event tersebut
// ke seluruh client yang terhubung.

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

var HubInstance = NewHub()

func init() {
	go HubInstance.Run()
}

// Event adalah pesan yang dikirim ke browser.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   string      `json:"at"`
}

// Client mewakili koneksi WebSocket
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub mengelola semua koneksi client
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	count      chan chan int
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			log.Printf("ws: client terdaftar (%d aktif)", len(h.Clients))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Printf("ws: client keluar (%d aktif)", len(h.Clients))
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		case reply := <-h.count:
			reply <- len(h.Clients)
		}
	}
}

// ClientCount mengembalikan jumlah client aktif.
func (h *Hub) ClientCount() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}

// Publish meng-encode event lalu mengirimnya ke semua client. Pesan dibuang
// bila antrean broadcast penuh supaya pemanggil tidak pernah tertahan.
func (h *Hub) Publish(eventType string, data interface{}) {
	message, err := json.Marshal(Event{Type: eventType, Data: data, At: time.Now().Format(time.RFC3339)})
	if err != nil {
		log.Printf("ws: gagal meng-encode event %s: %v", eventType, err)
		return
	}
	select {
	case h.Broadcast <- message:
	default:
		log.Printf("ws: antrean broadcast penuh, event %s dibuang", eventType)
	}
}
