package ws

import (
	"encoding/json"
	"time"

	"skills-matrix/internal/domain/matrix"
)

type DepartmentEvent struct {
	Type         string `json:"type"`
	DepartmentID string `json:"departmentId"`
	Action       string `json:"action"`
	Actor        string `json:"actor"`
	Timestamp    string `json:"timestamp"`
}

// Notifier forwards committed matrix changes to every connected client.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Notify(ev matrix.ChangeEvent) {
	if n == nil || n.hub == nil {
		return
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	b, err := json.Marshal(DepartmentEvent{
		Type:         ev.Type,
		DepartmentID: ev.DepartmentID.String(),
		Action:       ev.Action,
		Actor:        ev.Actor,
		Timestamp:    ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
