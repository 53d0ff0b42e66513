// Package sse streams catalog change notifications to HTTP clients as
// Server-Sent Events.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/starford/wort/internal/refdata"
	"github.com/starford/wort/internal/storage"
)

// Event types emitted by the broker.
const (
	TypeIngredientCreated = "ingredient.created"
	TypeIngredientUpdated = "ingredient.updated"
	TypeIngredientDeleted = "ingredient.deleted"
	TypeCatalogUpdated    = "catalog.updated"
)

const (
	defaultThrottle  = 2 * time.Second
	defaultKeepAlive = 15 * time.Second
	clientBuffer     = 64
)

// Event is one message on the stream. Category scopes an event to the
// subscribers of one ingredient category; empty reaches everyone.
type Event struct {
	Type     string
	Category string
	Data     any
}

// IngredientChange is the payload of the ingredient.* events.
type IngredientChange struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Path     string `json:"path"`
}

// Format renders event in the text/event-stream wire format. A zero id
// omits the id field.
func Format(id uint64, event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, fmt.Errorf("sse: encode %s: %w", event.Type, err)
	}
	var buf bytes.Buffer
	if id > 0 {
		buf.WriteString("id: " + strconv.FormatUint(id, 10) + "\n")
	}
	buf.WriteString("event: " + event.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// Subscription is one connected client.
type Subscription struct {
	C        <-chan []byte
	ch       chan []byte
	category string
}

// Option configures a Broker.
type Option func(*Broker)

// WithClock sets the clock used for the catalog throttle and keepalives.
func WithClock(c clockwork.Clock) Option {
	return func(b *Broker) { b.clock = c }
}

// WithKeepAlive sets the interval of comment frames sent to idle clients.
func WithKeepAlive(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.keepAlive = d
		}
	}
}

// Broker fans events out to subscribers. Sends never block: a client whose
// buffer is full misses the event.
type Broker struct {
	clock     clockwork.Clock
	throttle  time.Duration
	keepAlive time.Duration

	mu          sync.Mutex
	subs        map[*Subscription]struct{}
	seq         uint64
	lastCatalog time.Time
	closed      bool
}

// NewBroker creates a broker that emits catalog.updated at most once per
// catalogThrottle.
func NewBroker(catalogThrottle time.Duration, opts ...Option) *Broker {
	if catalogThrottle <= 0 {
		catalogThrottle = defaultThrottle
	}
	b := &Broker{
		clock:     clockwork.NewRealClock(),
		throttle:  catalogThrottle,
		keepAlive: defaultKeepAlive,
		subs:      make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a client. A non-empty category limits delivery to
// events of that category plus unscoped ones. After Close the returned
// channel is already closed.
func (b *Broker) Subscribe(category string) *Subscription {
	ch := make(chan []byte, clientBuffer)
	sub := &Subscription{C: ch, ch: ch, category: category}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Repeated calls are no-ops.
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish broadcasts event to every matching subscriber.
func (b *Broker) Publish(event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.publishLocked(event)
}

func (b *Broker) publishLocked(event Event) error {
	if b.closed {
		return nil
	}
	b.seq++
	raw, err := Format(b.seq, event)
	if err != nil {
		return err
	}
	for sub := range b.subs {
		if event.Category != "" && sub.category != "" && sub.category != event.Category {
			continue
		}
		select {
		case sub.ch <- raw:
		default:
		}
	}
	return nil
}

// PublishIngredientEvent publishes a reference file change ("created",
// "updated" or "deleted") followed by catalog.updated, which is throttled.
// Unknown kinds are ignored. Its signature matches index.EventCallback.
func (b *Broker) PublishIngredientEvent(kind, path string) {
	var typ string
	switch kind {
	case "created":
		typ = TypeIngredientCreated
	case "updated":
		typ = TypeIngredientUpdated
	case "deleted":
		typ = TypeIngredientDeleted
	default:
		return
	}
	category, key := storage.SplitPath(path)

	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.publishLocked(Event{
		Type:     typ,
		Category: category,
		Data:     IngredientChange{Category: category, Key: key, Path: path},
	})

	now := b.clock.Now()
	if b.lastCatalog.IsZero() || now.Sub(b.lastCatalog) >= b.throttle {
		b.lastCatalog = now
		_ = b.publishLocked(Event{Type: TypeCatalogUpdated, Data: map[string]string{}})
	}
}

// Close disconnects every client. Later publishes are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
	}
	clear(b.subs)
}

// ServeHTTP streams events to one client (GET /events). The optional
// category query parameter filters ingredient events.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" {
		if err := refdata.ValidateCategory(category); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := b.Subscribe(category)
	defer b.Unsubscribe(sub)

	ticker := b.clock.NewTicker(b.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.Chan():
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
