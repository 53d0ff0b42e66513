package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func drain(sub *Subscription) []string {
	var out []string
	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return out
			}
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func eventTypes(msgs []string) []string {
	var types []string
	for _, m := range msgs {
		for _, line := range strings.Split(m, "\n") {
			if t, ok := strings.CutPrefix(line, "event: "); ok {
				types = append(types, t)
			}
		}
	}
	return types
}

func TestFormat(t *testing.T) {
	raw, err := Format(7, Event{Type: TypeIngredientUpdated, Data: map[string]string{"path": "hops/saaz.json"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "id: 7\nevent: ingredient.updated\ndata: {\"path\":\"hops/saaz.json\"}\n\n"
	if string(raw) != want {
		t.Errorf("Format = %q, want %q", raw, want)
	}

	raw, _ = Format(0, Event{Type: TypeCatalogUpdated, Data: map[string]string{}})
	if string(raw) != "event: catalog.updated\ndata: {}\n\n" {
		t.Errorf("Format without id = %q", raw)
	}

	if _, err := Format(1, Event{Type: "bad", Data: func() {}}); err == nil {
		t.Error("expected marshal error for func data")
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	sub := b.Subscribe("")
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}
	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("clients = %d, want 0", n)
	}
	if _, ok := <-sub.C; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPublishAssignsSequentialIDs(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	sub := b.Subscribe("")

	_ = b.Publish(Event{Type: "a", Data: 1})
	_ = b.Publish(Event{Type: "b", Data: 2})

	msgs := drain(sub)
	if len(msgs) != 2 {
		t.Fatalf("messages = %q", msgs)
	}
	if !strings.HasPrefix(msgs[0], "id: 1\n") || !strings.HasPrefix(msgs[1], "id: 2\n") {
		t.Errorf("ids out of order: %q", msgs)
	}
}

func TestCategoryFilter(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()
	hops := b.Subscribe("hops")
	all := b.Subscribe("")

	b.PublishIngredientEvent("created", "grains/munich.yaml")
	b.PublishIngredientEvent("updated", "hops/saaz.json")

	got := eventTypes(drain(hops))
	want := []string{TypeCatalogUpdated, TypeIngredientUpdated}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("hops subscriber got %v, want %v", got, want)
	}
	if n := len(eventTypes(drain(all))); n != 3 {
		t.Errorf("unfiltered subscriber got %d events, want 3", n)
	}
}

func TestIngredientPayload(t *testing.T) {
	b := NewBroker(time.Minute)
	defer b.Close()
	sub := b.Subscribe("")

	b.PublishIngredientEvent("deleted", "yeast/danstar.json")

	msgs := drain(sub)
	if len(msgs) == 0 {
		t.Fatal("no events")
	}
	want := `data: {"category":"yeast","key":"danstar","path":"yeast/danstar.json"}`
	if !strings.Contains(msgs[0], want) {
		t.Errorf("payload = %q, want %s", msgs[0], want)
	}
}

func TestCatalogThrottle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewBroker(2*time.Second, WithClock(clock))
	defer b.Close()
	sub := b.Subscribe("")

	b.PublishIngredientEvent("created", "hops/saaz.json")
	b.PublishIngredientEvent("updated", "hops/cascade_us.json")
	b.PublishIngredientEvent("renamed", "hops/cascade_us.json")
	clock.Advance(time.Second)
	b.PublishIngredientEvent("deleted", "yeast/danstar.json")

	got := eventTypes(drain(sub))
	want := []string{
		TypeIngredientCreated, TypeCatalogUpdated,
		TypeIngredientUpdated,
		TypeIngredientDeleted,
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}

	clock.Advance(time.Second)
	b.PublishIngredientEvent("updated", "hops/saaz.json")
	got = eventTypes(drain(sub))
	if strings.Join(got, ",") != TypeIngredientUpdated+","+TypeCatalogUpdated {
		t.Errorf("after throttle window events = %v", got)
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	sub := b.Subscribe("")

	for i := 0; i < clientBuffer+10; i++ {
		if err := b.Publish(Event{Type: "test", Data: i}); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(drain(sub)); n != clientBuffer {
		t.Errorf("buffered = %d, want %d", n, clientBuffer)
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	b := NewBroker(time.Second)
	sub := b.Subscribe("")

	b.Close()
	b.Close()

	if _, ok := <-sub.C; ok {
		t.Fatal("expected subscriber channel to be closed")
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("clients = %d after close", n)
	}
	late := b.Subscribe("")
	if _, ok := <-late.C; ok {
		t.Error("subscribe after close should return a closed channel")
	}
	b.Unsubscribe(sub)
	if err := b.Publish(Event{Type: TypeCatalogUpdated, Data: 1}); err != nil {
		t.Errorf("publish after close: %v", err)
	}
	b.PublishIngredientEvent("updated", "hops/x.json")
}

func waitForClients(t *testing.T, b *Broker, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", b.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeHTTP(t *testing.T) {
	b := NewBroker(time.Second, WithKeepAlive(10*time.Millisecond))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events?category=hops", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	waitForClients(t, b, 1)
	b.PublishIngredientEvent("updated", "hops/saaz.json")
	b.PublishIngredientEvent("updated", "grains/munich.yaml")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"path":"hops/saaz.json"`) {
		t.Errorf("missing hops event: %q", body)
	}
	if strings.Contains(body, "grains/munich.yaml") {
		t.Errorf("grains event leaked through the filter: %q", body)
	}
	if !strings.Contains(body, ": keepalive\n\n") {
		t.Errorf("missing keepalive: %q", body)
	}
	waitForClients(t, b, 0)
}

func TestServeHTTP_UnknownCategory(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	w := httptest.NewRecorder()
	b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?category=spices", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestServeHTTP_EndsOnClose(t *testing.T) {
	b := NewBroker(time.Second)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
		close(done)
	}()
	waitForClients(t, b, 1)
	b.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler still streaming after Close")
	}
}
