// Package notifikasi meneruskan notifikasi dari service ke browser. Kegagalan
// pengiriman tidak pernah dikembalikan ke pemanggil.
package notifikasi

import (
	"sync"

	"github.com/c14220110/absensi-dashboard/ws"
)

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

const (
	EventNotify  = "notify"
	EventBrowser = "browser-notification"
	EventTone    = "tone"
)

type Notifier interface {
	Notify(message, severity string)
	NotifyBrowser(title, body string)
	PlayTone(frequencyHz, durationMs int)
}

// Publisher adalah bagian hub yang dibutuhkan HubNotifier.
type Publisher interface {
	Publish(eventType string, data interface{})
}

// HubNotifier mengirim notifikasi sebagai event websocket.
type HubNotifier struct {
	Hub Publisher
}

func NewHubNotifier(hub *ws.Hub) *HubNotifier {
	return &HubNotifier{Hub: hub}
}

func (n *HubNotifier) Notify(message, severity string) {
	n.Hub.Publish(EventNotify, map[string]string{"message": message, "severity": severity})
}

func (n *HubNotifier) NotifyBrowser(title, body string) {
	n.Hub.Publish(EventBrowser, map[string]string{"title": title, "body": body})
}

func (n *HubNotifier) PlayTone(frequencyHz, durationMs int) {
	n.Hub.Publish(EventTone, map[string]int{"frequency": frequencyHz, "duration": durationMs})
}

// Nop membuang semua notifikasi.
type Nop struct{}

func (Nop) Notify(string, string)        {}
func (Nop) NotifyBrowser(string, string) {}
func (Nop) PlayTone(int, int)            {}

// Message adalah satu notifikasi yang direkam Recorder.
type Message struct {
	Kind     string
	Text     string
	Severity string
	Title    string
	Tone     [2]int
}

// Recorder menyimpan notifikasi di memori; dipakai di pengujian.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(message, severity string) {
	r.add(Message{Kind: EventNotify, Text: message, Severity: severity})
}

func (r *Recorder) NotifyBrowser(title, body string) {
	r.add(Message{Kind: EventBrowser, Title: title, Text: body})
}

func (r *Recorder) PlayTone(frequencyHz, durationMs int) {
	r.add(Message{Kind: EventTone, Tone: [2]int{frequencyHz, durationMs}})
}

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Has melaporkan apakah ada notifikasi dengan jenis kind.
func (r *Recorder) Has(kind string) bool {
	for _, m := range r.Messages() {
		if m.Kind == kind {
			return true
		}
	}
	return false
}
