package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"skills-matrix/internal/domain/matrix"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestNotifier_BroadcastsToClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	deptID := uuid.New()
	NewNotifier(hub).Notify(matrix.ChangeEvent{
		Type:         matrix.EventDepartmentUpdated,
		DepartmentID: deptID,
		Action:       matrix.ActionSkillCreate,
		Actor:        "alice",
		Timestamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev DepartmentEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatal(err)
	}
	want := DepartmentEvent{
		Type:         "department_updated",
		DepartmentID: deptID.String(),
		Action:       "skill.create",
		Actor:        "alice",
		Timestamp:    "2024-01-02T03:04:05Z",
	}
	if ev != want {
		t.Fatalf("event = %+v, want %+v", ev, want)
	}

	_ = conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.Broadcast([]byte("x"))
	if h.ClientCount() != 0 {
		t.Fatalf("nil hub has clients")
	}
	var n *Notifier
	n.Notify(matrix.ChangeEvent{})
}

func TestHub_UnregisterDuringBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	clients := make([]*Client, 200)
	for i := range clients {
		clients[i] = &Client{hub: hub, send: make(chan []byte, 1)}
		if !hub.Register(clients[i]) {
			t.Fatalf("register %d refused", i)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			hub.Broadcast([]byte("tick"))
		}
	}()
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			hub.Unregister(c)
		}(c)
	}
	wg.Wait()

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_ShutdownClosesClientsAndRefusesNew(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	existing := &Client{hub: hub, send: make(chan []byte, 1)}
	if !hub.Register(existing) {
		t.Fatalf("register refused before shutdown")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}

	if _, ok := <-existing.send; ok {
		t.Fatalf("send channel still open after shutdown")
	}

	late := &Client{hub: hub, send: make(chan []byte, 1)}
	if hub.Register(late) {
		t.Fatalf("register accepted after shutdown")
	}

	returned := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Unregister(late)
		}
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatalf("Unregister blocked after shutdown")
	}
}
