// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file defines the relationship catalog: the data-driven
// registry of every foreign-key-bearing table that must be re-pointed from a
// losing record onto the surviving one during a merge. Adding a new dependent
// record type means adding one catalog entry; the transfer and preview logic
// never changes.
package repo

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/metatechsoftware/globcrm-dedup/internal/domain"
)

// Relationship describes one reparent target: a named dependent table and the
// foreign-key column in it that can point at a mergeable record.
type Relationship struct {
	// Name is the stable key used in transfer counts and API payloads.
	Name string
	// Model is a zero-value instance of the dependent GORM model.
	Model any
	// Column is the foreign-key column holding the mergeable record's id.
	Column string
}

// contactRelationships lists every reference type that can point at a contact.
var contactRelationships = []Relationship{
	{Name: "deals", Model: &domain.Deal{}, Column: "contact_id"},
	{Name: "quotes", Model: &domain.Quote{}, Column: "contact_id"},
	{Name: "service_requests", Model: &domain.ServiceRequest{}, Column: "contact_id"},
	{Name: "notes", Model: &domain.Note{}, Column: "contact_id"},
	{Name: "attachments", Model: &domain.Attachment{}, Column: "contact_id"},
	{Name: "activity_links", Model: &domain.ActivityLink{}, Column: "contact_id"},
	{Name: "emails", Model: &domain.EmailMessage{}, Column: "contact_id"},
	{Name: "feed_items", Model: &domain.FeedItem{}, Column: "contact_id"},
	{Name: "notifications", Model: &domain.Notification{}, Column: "contact_id"},
	{Name: "leads", Model: &domain.Lead{}, Column: "converted_contact_id"},
}

// companyRelationships lists every reference type that can point at a
// company, including its member contacts.
var companyRelationships = []Relationship{
	{Name: "deals", Model: &domain.Deal{}, Column: "company_id"},
	{Name: "quotes", Model: &domain.Quote{}, Column: "company_id"},
	{Name: "service_requests", Model: &domain.ServiceRequest{}, Column: "company_id"},
	{Name: "notes", Model: &domain.Note{}, Column: "company_id"},
	{Name: "attachments", Model: &domain.Attachment{}, Column: "company_id"},
	{Name: "activity_links", Model: &domain.ActivityLink{}, Column: "company_id"},
	{Name: "emails", Model: &domain.EmailMessage{}, Column: "company_id"},
	{Name: "feed_items", Model: &domain.FeedItem{}, Column: "company_id"},
	{Name: "notifications", Model: &domain.Notification{}, Column: "company_id"},
	{Name: "leads", Model: &domain.Lead{}, Column: "converted_company_id"},
	{Name: "contacts", Model: &domain.Contact{}, Column: "company_id"},
}

// RelationshipsFor returns the relationship catalog for an entity type.
// The returned slice must be treated as read-only.
func RelationshipsFor(et domain.EntityType) []Relationship {
	switch et {
	case domain.EntityContact:
		return contactRelationships
	case domain.EntityCompany:
		return companyRelationships
	default:
		return nil
	}
}

// RelationshipNames returns the catalog's names in sorted order, used by the
// API to enumerate the transfer-count keys deterministically.
func RelationshipNames(et domain.EntityType) []string {
	rels := RelationshipsFor(et)
	names := make([]string, 0, len(rels))
	for _, r := range rels {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// CountRelated returns, per relationship type, how many dependent rows point
// at the given record. It is the read-only half of the catalog, used for
// merge previews, and uses the exact same enumeration as ReparentRelated.
func CountRelated(ctx context.Context, db *gorm.DB, catalog []Relationship, tenantID, id string) (map[string]int, error) {
	counts := make(map[string]int, len(catalog))
	for _, rel := range catalog {
		var n int64
		err := db.WithContext(ctx).
			Model(rel.Model).
			Where(rel.Column+" = ? AND tenant_id = ?", id, tenantID).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		counts[rel.Name] = int(n)
	}
	return counts, nil
}

// ReparentRelated re-points every dependent row from loserID onto survivorID,
// one catalog entry at a time, and returns the number of rows changed per
// relationship type. It must run inside the caller's transaction; any failure
// leaves reparenting to be rolled back wholesale.
func ReparentRelated(tx *gorm.DB, catalog []Relationship, tenantID, loserID, survivorID string) (map[string]int, error) {
	counts := make(map[string]int, len(catalog))
	for _, rel := range catalog {
		res := tx.Model(rel.Model).
			Where(rel.Column+" = ? AND tenant_id = ?", loserID, tenantID).
			Update(rel.Column, survivorID)
		if res.Error != nil {
			return nil, res.Error
		}
		counts[rel.Name] = int(res.RowsAffected)
	}
	return counts, nil
}
