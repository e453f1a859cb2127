package dto

import (
	"time"

	"github.com/civicpulse/complaint-service/internal/domain"
)

// CoordinatesDTO is a latitude/longitude pair.
type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	Landmark    *string         `json:"landmark"`
	Coordinates *CoordinatesDTO `json:"coordinates"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
}

// AssignVolunteerRequest payload.
type AssignVolunteerRequest struct {
	VolunteerID string `json:"volunteerId"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ComplaintResponse is the wire form of a complaint.
type ComplaintResponse struct {
	ID                  string                   `json:"id"`
	ReporterID          string                   `json:"reporterId"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Address             string                   `json:"address"`
	Landmark            *string                  `json:"landmark"`
	Coordinates         *CoordinatesDTO          `json:"coordinates"`
	Category            string                   `json:"category"`
	Priority            domain.ComplaintPriority `json:"priority"`
	Status              domain.ComplaintStatus   `json:"status"`
	AssignedVolunteerID *string                  `json:"assignedVolunteerId"`
	CreatedAt           time.Time                `json:"createdAt"`
	UpdatedAt           time.Time                `json:"updatedAt"`
}

// ComplaintHistoryResponse is one audit entry.
type ComplaintHistoryResponse struct {
	ID          string                     `json:"id"`
	ChangedByID string                     `json:"changedById"`
	ChangedBy   domain.Role                `json:"changedBy"`
	ChangeType  domain.ComplaintChangeType `json:"changeType"`
	OldValue    map[string]any             `json:"oldValue"`
	NewValue    map[string]any             `json:"newValue"`
	CreatedAt   time.Time                  `json:"createdAt"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:                  c.ID,
		ReporterID:          c.ReporterID,
		Title:               c.Title,
		Description:         c.Description,
		Address:             c.Address,
		Landmark:            c.Landmark,
		Category:            c.Category,
		Priority:            c.Priority,
		Status:              c.Status,
		AssignedVolunteerID: c.AssignedVolunteerID,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if c.Coordinates != nil {
		resp.Coordinates = &CoordinatesDTO{Latitude: c.Coordinates.Latitude, Longitude: c.Coordinates.Longitude}
	}
	return resp
}

// NewComplaintList maps a slice, never returning nil.
func NewComplaintList(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, NewComplaintResponse(&complaints[i]))
	}
	return items
}

// NewHistoryList maps audit entries.
func NewHistoryList(entries []domain.ComplaintHistory) []ComplaintHistoryResponse {
	items := make([]ComplaintHistoryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, ComplaintHistoryResponse{
			ID:          e.ID,
			ChangedByID: e.ChangedByID,
			ChangedBy:   e.ChangedBy,
			ChangeType:  e.ChangeType,
			OldValue:    e.OldValue,
			NewValue:    e.NewValue,
			CreatedAt:   e.CreatedAt,
		})
	}
	return items
}

// ToCoordinates converts the optional request coordinates.
func (r CreateComplaintRequest) ToCoordinates() *domain.Coordinates {
	if r.Coordinates == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: r.Coordinates.Latitude, Longitude: r.Coordinates.Longitude}
}
