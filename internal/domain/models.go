// Package domain defines the persistence models for the multi-tenant
// business-records store: the two mergeable entity types (contacts and
// companies), the dependent record types that are reparented during a merge,
// the per-tenant matching configuration, and the append-only merge audit row.
// These types are mapped with GORM and form the core data layer of the
// duplicate detection & merge engine.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// EntityType identifies a mergeable entity type. It appears in URLs, in the
// matching configuration, and in merge audit rows.
type EntityType string

const (
	// EntityContact is the person-type entity ("contacts" in URLs).
	EntityContact EntityType = "contacts"
	// EntityCompany is the organization-type entity ("companies" in URLs).
	EntityCompany EntityType = "companies"
)

// ParseEntityType maps a path segment onto a known EntityType.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(strings.ToLower(strings.TrimSpace(s))) {
	case EntityContact:
		return EntityContact, true
	case EntityCompany:
		return EntityCompany, true
	default:
		return "", false
	}
}

// Contact represents a person record. A contact is "active" while its
// DeletedAt marker is unset; after losing a merge it is tombstoned (soft
// deleted) and MergedIntoID points at the surviving contact.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - TenantID: owning tenant; indexed, present on every query.
//   - FirstName / LastName: person name; the concatenation is the primary
//     matching field.
//   - Email: secondary matching field.
//   - CompanyID: optional membership link to a company.
//   - MergedIntoID: redirect pointer, set exactly once when the contact loses
//     a merge; always resolves to an active contact.
//   - DeletedAt: tombstone marker (retains row for redirect/audit).
type Contact struct {
	ID           string         `json:"id"             gorm:"type:char(36);primaryKey"`
	TenantID     string         `json:"tenant_id"      gorm:"type:varchar(64);not null;index:idx_tenant_contacts"`
	FirstName    string         `json:"first_name"     gorm:"type:varchar(120);not null;default:''"`
	LastName     string         `json:"last_name"      gorm:"type:varchar(120);not null;default:''"`
	Email        string         `json:"email"          gorm:"type:varchar(255);not null;default:'';index"`
	Phone        string         `json:"phone"          gorm:"type:varchar(40);not null;default:''"`
	CompanyID    *string        `json:"company_id,omitempty" gorm:"type:char(36);index"`
	MergedIntoID *string        `json:"merged_into_id,omitempty" gorm:"type:char(36)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }

// DisplayName returns the contact's full name for matching and display.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Company represents an organization record. Lifecycle mirrors Contact:
// active until tombstoned by a merge, after which MergedIntoID redirects to
// the survivor.
type Company struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID     string         `json:"tenant_id"  gorm:"type:varchar(64);not null;index:idx_tenant_companies"`
	Name         string         `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	Website      string         `json:"website"    gorm:"type:varchar(255);not null;default:''"`
	Industry     string         `json:"industry"   gorm:"type:varchar(120);not null;default:''"`
	MergedIntoID *string        `json:"merged_into_id,omitempty" gorm:"type:char(36)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Company.
func (Company) TableName() string { return "companies" }

//
// Dependent record types.
//
// Each carries nullable contact/company foreign keys; during a merge every
// reference to the loser is re-pointed at the survivor. The columns below are
// the reparent targets enumerated by the relationship catalog in internal/repo.
//

// Deal is a sales opportunity linked to a contact and/or company.
type Deal struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null;default:''"`
	Stage     string    `json:"stage"      gorm:"type:varchar(64);not null;default:'open'"`
	Amount    float64   `json:"amount"     gorm:"not null;default:0"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Deal.
func (Deal) TableName() string { return "deals" }

// Quote is a priced offer sent to a contact or company.
type Quote struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	TenantID    string    `json:"tenant_id"    gorm:"type:varchar(64);not null;index"`
	QuoteNumber string    `json:"quote_number" gorm:"type:varchar(64);not null;default:''"`
	Total       float64   `json:"total"        gorm:"not null;default:0"`
	ContactID   *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID   *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Quote.
func (Quote) TableName() string { return "quotes" }

// ServiceRequest is a support/service ticket raised by a contact or company.
type ServiceRequest struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Subject   string    `json:"subject"    gorm:"type:varchar(255);not null;default:''"`
	Status    string    `json:"status"     gorm:"type:varchar(64);not null;default:'open'"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ServiceRequest.
func (ServiceRequest) TableName() string { return "service_requests" }

// Note is free-form text attached to a record.
type Note struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Note.
func (Note) TableName() string { return "notes" }

// Attachment references a stored file linked to a record. Only the link is
// modeled here; blob storage is an external collaborator.
type Attachment struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	TenantID    string    `json:"tenant_id"    gorm:"type:varchar(64);not null;index"`
	FileName    string    `json:"file_name"    gorm:"type:varchar(255);not null;default:''"`
	StoragePath string    `json:"storage_path" gorm:"type:varchar(512);not null;default:''"`
	ContactID   *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID   *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Attachment.
func (Attachment) TableName() string { return "attachments" }

// ActivityLink joins a calendar/task activity to a record.
type ActivityLink struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	TenantID     string    `json:"tenant_id"     gorm:"type:varchar(64);not null;index"`
	ActivityType string    `json:"activity_type" gorm:"type:varchar(64);not null;default:''"`
	ActivityID   string    `json:"activity_id"   gorm:"type:char(36);not null;default:''"`
	ContactID    *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID    *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for ActivityLink.
func (ActivityLink) TableName() string { return "activity_links" }

// EmailMessage is a logged email associated with a record.
type EmailMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Subject   string    `json:"subject"    gorm:"type:varchar(255);not null;default:''"`
	Direction string    `json:"direction"  gorm:"type:varchar(16);not null;default:'outbound';check:direction IN ('inbound','outbound')"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for EmailMessage.
func (EmailMessage) TableName() string { return "email_messages" }

// FeedItem is an entry on a record's activity feed.
type FeedItem struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Kind      string    `json:"kind"       gorm:"type:varchar(64);not null;default:''"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for FeedItem.
func (FeedItem) TableName() string { return "feed_items" }

// Notification is a user-facing alert referencing a record.
type Notification struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID  string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Message   string    `json:"message"    gorm:"type:varchar(512);not null;default:''"`
	Read      bool      `json:"read"       gorm:"not null;default:false"`
	ContactID *string   `json:"contact_id,omitempty" gorm:"type:char(36);index"`
	CompanyID *string   `json:"company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// Lead is a pre-conversion prospect. After conversion it keeps back-references
// to the contact/company it produced; those back-references are reparented
// when the converted record loses a merge.
type Lead struct {
	ID                 string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID           string    `json:"tenant_id"  gorm:"type:varchar(64);not null;index"`
	Name               string    `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	Email              string    `json:"email"      gorm:"type:varchar(255);not null;default:''"`
	Status             string    `json:"status"     gorm:"type:varchar(64);not null;default:'new'"`
	ConvertedContactID *string   `json:"converted_contact_id,omitempty" gorm:"type:char(36);index"`
	ConvertedCompanyID *string   `json:"converted_company_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }

// MatchingConfig holds the per-tenant, per-entity-type matching settings.
// One row per (tenant, entity type); absent rows behave as the defaults
// (threshold 70, auto-detection on). Mutated only by tenant administration;
// the detection path reads it fresh on every call. The toggle governs
// real-time checks only; batch scanning and manual merge ignore it.
type MatchingConfig struct {
	ID                   string     `json:"id"                     gorm:"type:char(36);primaryKey"`
	TenantID             string     `json:"tenant_id"              gorm:"type:varchar(64);not null;uniqueIndex:ux_matching_tenant_entity,priority:1"`
	EntityType           EntityType `json:"entity_type"            gorm:"type:varchar(32);not null;uniqueIndex:ux_matching_tenant_entity,priority:2"`
	SimilarityThreshold  int        `json:"similarity_threshold"   gorm:"not null;default:70;check:similarity_threshold BETWEEN 0 AND 100"`
	AutoDetectionEnabled bool       `json:"auto_detection_enabled" gorm:"not null;default:true"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName returns the database table name for MatchingConfig.
func (MatchingConfig) TableName() string { return "matching_configs" }

// DefaultSimilarityThreshold is the matching threshold used when a tenant has
// no MatchingConfig row for an entity type.
const DefaultSimilarityThreshold = 70

// DefaultMatchingConfig returns the settings an unconfigured tenant gets.
func DefaultMatchingConfig(tenantID string, et EntityType) MatchingConfig {
	return MatchingConfig{
		TenantID:             tenantID,
		EntityType:           et,
		SimilarityThreshold:  DefaultSimilarityThreshold,
		AutoDetectionEnabled: true,
	}
}

// MergeRecord is the write-once audit fact produced by every successful merge:
// who merged what into what, when, and how many rows of each relationship type
// were transferred. Rows are never updated or deleted.
type MergeRecord struct {
	ID             string     `json:"id"              gorm:"type:char(36);primaryKey"`
	TenantID       string     `json:"tenant_id"       gorm:"type:varchar(64);not null;index"`
	EntityType     EntityType `json:"entity_type"     gorm:"type:varchar(32);not null"`
	SurvivorID     string     `json:"survivor_id"     gorm:"type:char(36);not null;index"`
	LoserID        string     `json:"loser_id"        gorm:"type:char(36);not null;index"`
	TransferCounts string     `json:"-"               gorm:"type:text;not null;default:'{}'"`
	ActingUserID   string     `json:"acting_user_id"  gorm:"type:varchar(64);not null;default:''"`
	MergedAt       time.Time  `json:"merged_at"       gorm:"not null"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName returns the database table name for MergeRecord.
func (MergeRecord) TableName() string { return "merge_records" }

// SetTransferCounts serializes per-relationship transfer counts into the row.
func (m *MergeRecord) SetTransferCounts(counts map[string]int) error {
	b, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	m.TransferCounts = string(b)
	return nil
}

// TransferCountMap deserializes the stored per-relationship transfer counts.
// A malformed or empty payload yields an empty map rather than an error so
// audit reads never fail on historical rows.
func (m *MergeRecord) TransferCountMap() map[string]int {
	out := map[string]int{}
	if m.TransferCounts == "" {
		return out
	}
	_ = json.Unmarshal([]byte(m.TransferCounts), &out)
	return out
}

// RecordSummary is the minimal projection of a record used for matching:
// id, the primary and secondary text fields, and the last-modified timestamp.
// It is recomputed per query and never persisted.
type RecordSummary struct {
	ID        string    `json:"id"`
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	UpdatedAt time.Time `json:"updated_at"`
}
