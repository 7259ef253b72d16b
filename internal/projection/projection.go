// Package projection computes the minimal store projection for a requested
// property set. Over-fetching is the dominant cost driver at the store
// boundary, so nothing is requested that the caller did not ask for.
package projection

import (
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/store"
)

// Projection is the computed query plan for one fetch.
type Projection struct {
	// Columns are the contact-level scalar columns to request.
	Columns []string
	// Kinds are the data record kinds to query, one query each.
	Kinds []store.RecordKind
	// Requested is the property set after capability filtering; it becomes
	// the fetched contact's populated-property metadata.
	Requested model.PropertySet
	// FullPhoto marks that the dedicated full-resolution blob fetch is
	// wanted. It never rides along with the scalar query.
	FullPhoto bool
}

// baseColumns are always fetched: identity and the store-level scalar flags.
var baseColumns = []string{
	store.ColID,
	store.ColPartitionID,
	store.ColDisplayName,
	store.ColStarred,
	store.ColRingtone,
	store.ColSendToVoicemail,
	store.ColUpdatedAt,
}

// Build is a pure function from a property set and a backend capability
// descriptor to a projection. Kinds the backend does not support are dropped
// from both the plan and the Requested set, so an unsupported property is
// "not requested" rather than silently empty.
func Build(props model.PropertySet, caps store.Capabilities) Projection {
	p := Projection{
		Columns:   append([]string(nil), baseColumns...),
		Requested: model.NewPropertySet(),
	}
	for _, kind := range props.Kinds() {
		if !caps.Supports(kind) {
			continue
		}
		p.Requested.Add(kind)
		switch kind {
		case model.KindThumbnail:
			// The low-resolution tier is a scalar column and rides along
			// with the contact-level query.
			p.Columns = append(p.Columns, store.ColThumbnail)
		case model.KindPhoto:
			p.FullPhoto = true
		default:
			p.Kinds = append(p.Kinds, store.DataKinds(kind)...)
		}
	}
	return p
}
