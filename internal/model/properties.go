package model

import "github.com/rolodexd/rolodexd/internal/label"

// PropertyMetadata carries the store-assigned identity of one property value.
// A populated DataID means the value came from the store and can be targeted
// for update or delete; a nil/absent metadata means the value is new.
type PropertyMetadata struct {
	DataID      string `json:"dataId,omitempty"`
	PartitionID string `json:"partitionId,omitempty"`
}

func stableID(m *PropertyMetadata) string {
	if m == nil {
		return ""
	}
	return m.DataID
}

func partitionID(m *PropertyMetadata) string {
	if m == nil {
		return ""
	}
	return m.PartitionID
}

// Phone is one phone number.
type Phone struct {
	Number     string                        `json:"number"`
	Normalized string                        `json:"normalizedNumber,omitempty"`
	Primary    bool                          `json:"isPrimary,omitempty"`
	Label      label.Label[label.PhoneLabel] `json:"label"`
	Metadata   *PropertyMetadata             `json:"metadata,omitempty"`
}

// StableID returns the store identity, or "" for a new value.
func (p Phone) StableID() string { return stableID(p.Metadata) }

// PartitionID returns the owning partition, or "" when unknown.
func (p Phone) PartitionID() string { return partitionID(p.Metadata) }

// Email is one email address.
type Email struct {
	Address  string                        `json:"address"`
	Primary  bool                          `json:"isPrimary,omitempty"`
	Label    label.Label[label.EmailLabel] `json:"label"`
	Metadata *PropertyMetadata             `json:"metadata,omitempty"`
}

func (e Email) StableID() string    { return stableID(e.Metadata) }
func (e Email) PartitionID() string { return partitionID(e.Metadata) }

// Address is one postal address. Formatted is the display form; the
// structured fields are optional refinements.
type Address struct {
	Formatted    string                          `json:"address"`
	Street       string                          `json:"street,omitempty"`
	POBox        string                          `json:"pobox,omitempty"`
	Neighborhood string                          `json:"neighborhood,omitempty"`
	City         string                          `json:"city,omitempty"`
	State        string                          `json:"state,omitempty"`
	PostalCode   string                          `json:"postalCode,omitempty"`
	Country      string                          `json:"country,omitempty"`
	Label        label.Label[label.AddressLabel] `json:"label"`
	Metadata     *PropertyMetadata               `json:"metadata,omitempty"`
}

func (a Address) StableID() string    { return stableID(a.Metadata) }
func (a Address) PartitionID() string { return partitionID(a.Metadata) }

// Organization is one employer/affiliation entry.
type Organization struct {
	Company        string            `json:"company"`
	Title          string            `json:"title,omitempty"`
	Department     string            `json:"department,omitempty"`
	JobDescription string            `json:"jobDescription,omitempty"`
	Symbol         string            `json:"symbol,omitempty"`
	PhoneticName   string            `json:"phoneticName,omitempty"`
	OfficeLocation string            `json:"officeLocation,omitempty"`
	Metadata       *PropertyMetadata `json:"metadata,omitempty"`
}

func (o Organization) StableID() string    { return stableID(o.Metadata) }
func (o Organization) PartitionID() string { return partitionID(o.Metadata) }

// Website is one URL entry.
type Website struct {
	URL      string                          `json:"url"`
	Label    label.Label[label.WebsiteLabel] `json:"label"`
	Metadata *PropertyMetadata               `json:"metadata,omitempty"`
}

func (w Website) StableID() string    { return stableID(w.Metadata) }
func (w Website) PartitionID() string { return partitionID(w.Metadata) }

// SocialMedia is one social or instant-messaging handle.
type SocialMedia struct {
	UserName string                              `json:"userName"`
	Label    label.Label[label.SocialMediaLabel] `json:"label"`
	Metadata *PropertyMetadata                   `json:"metadata,omitempty"`
}

func (s SocialMedia) StableID() string    { return stableID(s.Metadata) }
func (s SocialMedia) PartitionID() string { return partitionID(s.Metadata) }

// Event is one dated event. Year is nil for year-less dates such as
// birthdays without a known year.
type Event struct {
	Year     *int                          `json:"year,omitempty"`
	Month    int                           `json:"month"`
	Day      int                           `json:"day"`
	Label    label.Label[label.EventLabel] `json:"label"`
	Metadata *PropertyMetadata             `json:"metadata,omitempty"`
}

func (e Event) StableID() string    { return stableID(e.Metadata) }
func (e Event) PartitionID() string { return partitionID(e.Metadata) }

// Relation names a related person.
type Relation struct {
	Name     string                           `json:"name"`
	Label    label.Label[label.RelationLabel] `json:"label"`
	Metadata *PropertyMetadata                `json:"metadata,omitempty"`
}

func (r Relation) StableID() string    { return stableID(r.Metadata) }
func (r Relation) PartitionID() string { return partitionID(r.Metadata) }

// Note is one free-text note.
type Note struct {
	Note     string            `json:"note"`
	Metadata *PropertyMetadata `json:"metadata,omitempty"`
}

func (n Note) StableID() string    { return stableID(n.Metadata) }
func (n Note) PartitionID() string { return partitionID(n.Metadata) }
