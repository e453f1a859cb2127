package domain

import (
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "PENDING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
)

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow      ComplaintPriority = "LOW"
	ComplaintPriorityMedium   ComplaintPriority = "MEDIUM"
	ComplaintPriorityHigh     ComplaintPriority = "HIGH"
	ComplaintPriorityCritical ComplaintPriority = "CRITICAL"
)

const (
	unknownStatusRank   = 4
	unknownPriorityRank = 5
)

// normalizeEnum upper-cases and maps space or hyphen separators to underscores,
// so "In Progress", "in-progress" and "IN_PROGRESS" compare equal.
func normalizeEnum(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "INPROGRESS" {
		return string(ComplaintStatusInProgress)
	}
	return s
}

// ParseComplaintStatus returns the canonical status for raw. ok is false when raw is not a
// known status; in that case the trimmed input is returned unchanged.
func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	switch ComplaintStatus(normalizeEnum(raw)) {
	case ComplaintStatusPending:
		return ComplaintStatusPending, true
	case ComplaintStatusInProgress:
		return ComplaintStatusInProgress, true
	case ComplaintStatusResolved:
		return ComplaintStatusResolved, true
	default:
		return ComplaintStatus(strings.TrimSpace(raw)), false
	}
}

// Rank orders statuses for work queues: IN_PROGRESS=1, PENDING=2, RESOLVED=3, anything else 4.
func (s ComplaintStatus) Rank() int {
	canonical, ok := ParseComplaintStatus(string(s))
	if !ok {
		return unknownStatusRank
	}
	switch canonical {
	case ComplaintStatusInProgress:
		return 1
	case ComplaintStatusPending:
		return 2
	default:
		return 3
	}
}

// CountsAsPending reports whether s is tallied as pending. Empty statuses count,
// since rows written before the column default existed may carry none.
func (s ComplaintStatus) CountsAsPending() bool {
	if strings.TrimSpace(string(s)) == "" {
		return true
	}
	canonical, ok := ParseComplaintStatus(string(s))
	return ok && canonical == ComplaintStatusPending
}

// ParseComplaintPriority returns the canonical priority for raw.
func ParseComplaintPriority(raw string) (ComplaintPriority, bool) {
	switch ComplaintPriority(normalizeEnum(raw)) {
	case ComplaintPriorityLow:
		return ComplaintPriorityLow, true
	case ComplaintPriorityMedium:
		return ComplaintPriorityMedium, true
	case ComplaintPriorityHigh:
		return ComplaintPriorityHigh, true
	case ComplaintPriorityCritical:
		return ComplaintPriorityCritical, true
	default:
		return ComplaintPriority(strings.TrimSpace(raw)), false
	}
}

// Rank orders priorities most urgent first: CRITICAL=1 .. LOW=4, anything else 5.
func (p ComplaintPriority) Rank() int {
	canonical, ok := ParseComplaintPriority(string(p))
	if !ok {
		return unknownPriorityRank
	}
	switch canonical {
	case ComplaintPriorityCritical:
		return 1
	case ComplaintPriorityHigh:
		return 2
	case ComplaintPriorityMedium:
		return 3
	default:
		return 4
	}
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Complaint is the aggregate for a reported civic issue.
type Complaint struct {
	ID                  string
	ReporterID          string
	Title               string
	Description         string
	Address             string
	Landmark            *string
	Coordinates         *Coordinates
	Category            string
	Priority            ComplaintPriority
	Status              ComplaintStatus
	AssignedVolunteerID *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsAssignedTo reports whether userID is the complaint's assigned volunteer.
func (c *Complaint) IsAssignedTo(userID string) bool {
	return c != nil && c.AssignedVolunteerID != nil && *c.AssignedVolunteerID == userID
}
