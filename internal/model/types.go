package model

import "time"

// Role values accepted for User.Role.
const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
)

// Report verification states. Reports always start as pending.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusDisputed = "disputed"
)

// Audit actions recorded against a disaster.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
)

// User is an account in the system. Users are immutable after creation.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditEntry is one record in a disaster's append-only audit trail.
// Timestamp marshals as RFC 3339, the wire shape consumers expect.
type AuditEntry struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Disaster is the central record of the coordination service.
// Latitude/Longitude stay nil until an external geocoder resolves
// LocationName; the core never sets them on create.
type Disaster struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	LocationName string       `json:"locationName"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	Tags         []string     `json:"tags"`
	OwnerID      string       `json:"ownerId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	AuditTrail   []AuditEntry `json:"auditTrail"`
}

// HasTag reports membership in the disaster's tag set.
func (d *Disaster) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Report is a field observation attached to a disaster.
type Report struct {
	ID                 int64     `json:"id"`
	DisasterID         int64     `json:"disasterId"`
	UserID             string    `json:"userId"`
	Content            string    `json:"content"`
	ImageURL           *string   `json:"imageUrl,omitempty"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Resource is a deployable asset (shelter, medical post, ...) attached to a
// disaster. Coordinates stay nil until geocoded externally.
type Resource struct {
	ID           int64     `json:"id"`
	DisasterID   int64     `json:"disasterId"`
	Name         string    `json:"name"`
	LocationName string    `json:"locationName"`
	Type         string    `json:"type"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateUserRequest carries the fields of createUser.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateDisasterRequest carries the fields of createDisaster.
type CreateDisasterRequest struct {
	Title        string   `json:"title"`
	LocationName string   `json:"locationName"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	OwnerID      string   `json:"ownerId"`
}

// DisasterFilter narrows getDisasters. Zero values mean "no filter".
type DisasterFilter struct {
	Tag     string
	OwnerID string
}

// DisasterUpdate is a partial update; nil fields are left untouched.
// Tags replaces the whole tag set when non-nil.
type DisasterUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	LocationName *string   `json:"locationName,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	OwnerID      *string   `json:"ownerId,omitempty"`
}

// CreateReportRequest carries the fields of createReport. Any verification
// status supplied by the caller is ignored; reports start pending.
type CreateReportRequest struct {
	DisasterID int64   `json:"disasterId"`
	UserID     string  `json:"userId"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"imageUrl,omitempty"`
}

// ReportUpdate is a partial update; nil fields are left untouched.
type ReportUpdate struct {
	Content            *string `json:"content,omitempty"`
	ImageURL           *string `json:"imageUrl,omitempty"`
	VerificationStatus *string `json:"verificationStatus,omitempty"`
}

// CreateResourceRequest carries the fields of createResource.
type CreateResourceRequest struct {
	DisasterID   int64  `json:"disasterId"`
	Name         string `json:"name"`
	LocationName string `json:"locationName"`
	Type         string `json:"type"`
}

// ResourceUpdate is a partial update; nil fields are left untouched.
type ResourceUpdate struct {
	Name         *string  `json:"name,omitempty"`
	LocationName *string  `json:"locationName,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}
