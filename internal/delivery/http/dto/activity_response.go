package dto

import (
	"time"

	"skills-matrix/internal/domain/matrix"
)

type ActivityResponse struct {
	ID           string  `json:"id"`
	OccurredAt   string  `json:"occurredAt"`
	Actor        string  `json:"actor"`
	Action       string  `json:"action"`
	EntityType   string  `json:"entityType"`
	EntityID     string  `json:"entityId"`
	DepartmentID *string `json:"departmentId"`
	Detail       string  `json:"detail"`
}

func NewActivityResponses(items []matrix.ActivityRecord) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(items))
	for _, a := range items {
		r := ActivityResponse{
			ID:         a.ID.String(),
			OccurredAt: a.OccurredAt.UTC().Format(time.RFC3339Nano),
			Actor:      a.Actor,
			Action:     a.Action,
			EntityType: a.EntityType,
			EntityID:   a.EntityID.String(),
			Detail:     a.Detail,
		}
		if a.DepartmentID != nil {
			s := a.DepartmentID.String()
			r.DepartmentID = &s
		}
		out = append(out, r)
	}
	return out
}
