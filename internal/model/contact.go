// Package model defines the canonical contact aggregate exchanged between the
// service surface, the reconciliation engine, and store adapters. Contacts are
// treated as immutable values: an update is expressed by diffing an old value
// against a new one, never by mutating a fetched snapshot in place.
package model

import "time"

// Partition identifies one storage grouping inside the contact store,
// typically tied to a linked external account.
type Partition struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Photo holds contact imagery. Thumbnail is the low-resolution form that can
// ride along with a contact-level query; FullSize requires a dedicated blob
// fetch and is only populated when explicitly requested.
type Photo struct {
	Thumbnail []byte `json:"thumbnail,omitempty"`
	FullSize  []byte `json:"fullSize,omitempty"`
}

// IsEmpty reports whether neither tier is populated.
func (p *Photo) IsEmpty() bool {
	return p == nil || (len(p.Thumbnail) == 0 && len(p.FullSize) == 0)
}

// Metadata records how a Contact was fetched. Properties is load-bearing: it
// is the set of property kinds that were populated at fetch time, and only
// those kinds are authoritative when the contact is later diffed for update.
type Metadata struct {
	Properties PropertySet `json:"properties"`
}

// Contact is the aggregate root.
type Contact struct {
	ID              string         `json:"id,omitempty"`
	DisplayName     string         `json:"displayName,omitempty"`
	Name            Name           `json:"name"`
	Photo           *Photo         `json:"photo,omitempty"`
	Phones          []Phone        `json:"phones,omitempty"`
	Emails          []Email        `json:"emails,omitempty"`
	Addresses       []Address      `json:"addresses,omitempty"`
	Organizations   []Organization `json:"organizations,omitempty"`
	Websites        []Website      `json:"websites,omitempty"`
	SocialMedias    []SocialMedia  `json:"socialMedias,omitempty"`
	Events          []Event        `json:"events,omitempty"`
	Relations       []Relation     `json:"relations,omitempty"`
	Notes           []Note         `json:"notes,omitempty"`
	Starred         bool           `json:"isStarred,omitempty"`
	Ringtone        string         `json:"ringtone,omitempty"`
	SendToVoicemail bool           `json:"sendToVoicemail,omitempty"`
	LastUpdated     time.Time      `json:"lastUpdated,omitempty"`
	Partitions      []Partition    `json:"partitions,omitempty"`
	Metadata        Metadata       `json:"metadata"`
}

// IsNew reports whether the contact has never been saved.
func (c *Contact) IsNew() bool { return c.ID == "" }

// HasStoredProperties reports whether any property value carries a store
// identity. A freshly constructed contact must not.
func (c *Contact) HasStoredProperties() bool {
	if c.Name.StableID() != "" {
		return true
	}
	for _, p := range c.Phones {
		if p.StableID() != "" {
			return true
		}
	}
	for _, e := range c.Emails {
		if e.StableID() != "" {
			return true
		}
	}
	for _, a := range c.Addresses {
		if a.StableID() != "" {
			return true
		}
	}
	for _, o := range c.Organizations {
		if o.StableID() != "" {
			return true
		}
	}
	for _, w := range c.Websites {
		if w.StableID() != "" {
			return true
		}
	}
	for _, s := range c.SocialMedias {
		if s.StableID() != "" {
			return true
		}
	}
	for _, e := range c.Events {
		if e.StableID() != "" {
			return true
		}
	}
	for _, r := range c.Relations {
		if r.StableID() != "" {
			return true
		}
	}
	for _, n := range c.Notes {
		if n.StableID() != "" {
			return true
		}
	}
	return false
}

// Absorb merges a partial fetch result for the same contact into c: property
// lists are unioned by appending, scalar fields follow first-non-empty-wins,
// and the populated-property set grows monotonically.
func (c *Contact) Absorb(part Contact) {
	if c.ID == "" {
		c.ID = part.ID
	}
	if c.DisplayName == "" {
		c.DisplayName = part.DisplayName
	}
	if c.Name.IsEmpty() {
		nick, nickMeta := c.Name.Nickname, c.Name.NicknameMetadata
		meta := c.Name.Metadata
		c.Name = part.Name
		if c.Name.Nickname == "" {
			c.Name.Nickname, c.Name.NicknameMetadata = nick, nickMeta
		}
		if c.Name.Metadata == nil {
			c.Name.Metadata = meta
		}
	} else if c.Name.Nickname == "" && part.Name.Nickname != "" {
		c.Name.Nickname = part.Name.Nickname
		if c.Name.NicknameMetadata == nil {
			c.Name.NicknameMetadata = part.Name.NicknameMetadata
		}
	}
	if part.Photo != nil {
		if c.Photo == nil {
			c.Photo = &Photo{}
		}
		if len(c.Photo.Thumbnail) == 0 {
			c.Photo.Thumbnail = part.Photo.Thumbnail
		}
		if len(c.Photo.FullSize) == 0 {
			c.Photo.FullSize = part.Photo.FullSize
		}
	}
	c.Phones = append(c.Phones, part.Phones...)
	c.Emails = append(c.Emails, part.Emails...)
	c.Addresses = append(c.Addresses, part.Addresses...)
	c.Organizations = append(c.Organizations, part.Organizations...)
	c.Websites = append(c.Websites, part.Websites...)
	c.SocialMedias = append(c.SocialMedias, part.SocialMedias...)
	c.Events = append(c.Events, part.Events...)
	c.Relations = append(c.Relations, part.Relations...)
	c.Notes = append(c.Notes, part.Notes...)
	if !c.Starred {
		c.Starred = part.Starred
	}
	if c.Ringtone == "" {
		c.Ringtone = part.Ringtone
	}
	if !c.SendToVoicemail {
		c.SendToVoicemail = part.SendToVoicemail
	}
	if c.LastUpdated.IsZero() {
		c.LastUpdated = part.LastUpdated
	}
	for _, p := range part.Partitions {
		if !containsPartition(c.Partitions, p.ID) {
			c.Partitions = append(c.Partitions, p)
		}
	}
	c.Metadata.Properties.Union(part.Metadata.Properties)
}

func containsPartition(parts []Partition, id string) bool {
	for _, p := range parts {
		if p.ID == id {
			return true
		}
	}
	return false
}
