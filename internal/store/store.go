// Package store defines the boundary to the external contact store: an opaque
// transactional record store with a query interface. Adapters translate the
// Mutation union into store-native calls; the core never depends on a
// particular backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rolodexd/rolodexd/internal/model"
)

// Sentinel errors surfaced across the store boundary.
var (
	// ErrNotFound means the target record vanished between resolution and
	// execution.
	ErrNotFound = errors.New("record not found")
	// ErrPrecondition means a write was rejected before any mutation was
	// attempted.
	ErrPrecondition = errors.New("precondition failed")
)

// Error wraps an opaque backend failure. The core never interprets the cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// WrapErr wraps err as an opaque store failure unless it is already a
// boundary sentinel.
func WrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPrecondition) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// RecordKind names one physical record type inside the store.
type RecordKind string

const (
	KindContact         RecordKind = "contact"
	KindStructuredName  RecordKind = "structured_name"
	KindNickname        RecordKind = "nickname"
	KindPhone           RecordKind = "phone"
	KindEmail           RecordKind = "email"
	KindAddress         RecordKind = "address"
	KindOrganization    RecordKind = "organization"
	KindWebsite         RecordKind = "website"
	KindSocialMedia     RecordKind = "social_media"
	KindEvent           RecordKind = "event"
	KindRelation        RecordKind = "relation"
	KindNote            RecordKind = "note"
	KindPhoto           RecordKind = "photo"
	KindGroup           RecordKind = "group"
	KindGroupMembership RecordKind = "group_membership"
)

// Field keys shared by all adapters. Contact-level scalar columns use the
// Col* names; data-record fields use the Field* names.
const (
	ColID              = "id"
	ColDisplayName     = "display_name"
	ColStarred         = "starred"
	ColRingtone        = "ringtone"
	ColSendToVoicemail = "send_to_voicemail"
	ColUpdatedAt       = "updated_at"
	ColThumbnail       = "thumbnail"
	ColPartitionID     = "partition_id"

	FieldContactID       = "contact_id"
	FieldLabel           = "label"
	FieldCustomLabel     = "custom_label"
	FieldPrimary         = "is_primary"
	FieldValue           = "value"
	FieldNormalizedValue = "normalized_value"
	FieldName            = "name"

	FieldStreet       = "street"
	FieldPOBox        = "pobox"
	FieldNeighborhood = "neighborhood"
	FieldCity         = "city"
	FieldState        = "state"
	FieldPostalCode   = "postal_code"
	FieldCountry      = "country"

	FieldCompany        = "company"
	FieldTitle          = "title"
	FieldDepartment     = "department"
	FieldJobDescription = "job_description"
	FieldSymbol         = "symbol"
	FieldPhoneticName   = "phonetic_name"
	FieldOfficeLocation = "office_location"

	FieldYear  = "year"
	FieldMonth = "month"
	FieldDay   = "day"

	FieldFirst          = "first"
	FieldLast           = "last"
	FieldMiddle         = "middle"
	FieldPrefix         = "prefix"
	FieldSuffix         = "suffix"
	FieldFirstPhonetic  = "first_phonetic"
	FieldLastPhonetic   = "last_phonetic"
	FieldMiddlePhonetic = "middle_phonetic"

	FieldGroupID = "group_id"
	FieldPhoto   = "photo"
)

// Fields is a loose bag of record field values.
type Fields map[string]any

// Clone returns a shallow copy of the field bag.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Row is one record returned by Query.
type Row struct {
	DataID      string
	ContactID   string
	PartitionID string
	Kind        RecordKind
	Fields      Fields
}

// Query selects records of one kind, optionally narrowed to specific
// contacts, a partition, or a group. Columns restricts contact-level scalar
// projection; data-record queries return all fields of the kind.
type Query struct {
	Kind        RecordKind
	ContactIDs  []string
	PartitionID string
	GroupID     string
	Columns     []string
}

// Op discriminates the Mutation union.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation is one element of a store transaction.
//
// Insert ops for data records that belong to a contact created earlier in the
// same batch carry a BackRef: the index of that earlier insert. The executor
// resolves BackRefs across chunk boundaries; an adapter only ever sees
// BackRefs pointing into its own transaction.
type Mutation struct {
	Op     Op
	Kind   RecordKind
	DataID string
	Fields Fields
	// BackRef is the batch index of the insert whose assigned id this row's
	// contact_id field must take; nil when the parent id is already known.
	BackRef *int
	// SelectionIDs targets many records at once (delete flows). The executor
	// re-chunks long selections below the store's query-argument ceiling.
	SelectionIDs []string
	// Yield marks a cooperative yield point so long transactions do not
	// starve other store callers.
	Yield bool
}

// Insert builds an insert mutation.
func Insert(kind RecordKind, fields Fields) Mutation {
	return Mutation{Op: OpInsert, Kind: kind, Fields: fields}
}

// InsertRef builds an insert mutation whose contact id resolves from the
// batch insert at index backRef.
func InsertRef(kind RecordKind, fields Fields, backRef int) Mutation {
	return Mutation{Op: OpInsert, Kind: kind, Fields: fields, BackRef: &backRef}
}

// Update builds an update mutation targeting one record.
func Update(kind RecordKind, dataID string, fields Fields) Mutation {
	return Mutation{Op: OpUpdate, Kind: kind, DataID: dataID, Fields: fields}
}

// Delete builds a delete mutation targeting one record.
func Delete(kind RecordKind, dataID string) Mutation {
	return Mutation{Op: OpDelete, Kind: kind, DataID: dataID}
}

// DeleteSelection builds a delete mutation targeting many records by id.
func DeleteSelection(kind RecordKind, ids []string) Mutation {
	return Mutation{Op: OpDelete, Kind: kind, SelectionIDs: ids}
}

// Result reports the outcome of one mutation. DataID is populated for
// inserts with the store-assigned record id.
type Result struct {
	DataID string
}

// BlobRef addresses contact photo bytes for streaming.
type BlobRef struct {
	ContactID string
	FullSize  bool
}

// Capabilities describes what one store backend supports. The projection
// builder and write validation consult it instead of scattering availability
// checks through business logic.
type Capabilities struct {
	Properties model.PropertySet
	// MaxTransactionOps is the hard ceiling on operations per transaction.
	MaxTransactionOps int
	// MaxQueryArgs is the hard ceiling on selection arguments per statement.
	MaxQueryArgs int
}

// Supports reports whether the backend stores the given property kind.
func (c Capabilities) Supports(kind model.PropertyKind) bool {
	return c.Properties.Has(kind)
}

// Store is the contact store boundary.
type Store interface {
	// Query returns matching rows. A query for a missing contact returns no
	// rows, not an error.
	Query(ctx context.Context, q Query) ([]Row, error)
	// ExecuteTransaction applies ops atomically and returns one result per
	// op. On failure nothing in the transaction is applied.
	ExecuteTransaction(ctx context.Context, ops []Mutation) ([]Result, error)
	// OpenBlob streams photo bytes. Returns ErrNotFound when the contact has
	// no stored photo at the requested tier.
	OpenBlob(ctx context.Context, ref BlobRef) (io.ReadCloser, error)
	// Partitions lists the storage partitions known to the backend.
	Partitions(ctx context.Context) ([]model.Partition, error)
	// Capabilities describes the backend's supported property kinds and
	// transaction limits.
	Capabilities() Capabilities
}

// DataKinds maps a property kind to the physical record kinds backing it.
// Name is the one property split across two record kinds.
func DataKinds(kind model.PropertyKind) []RecordKind {
	switch kind {
	case model.KindName:
		return []RecordKind{KindStructuredName, KindNickname}
	case model.KindPhone:
		return []RecordKind{KindPhone}
	case model.KindEmail:
		return []RecordKind{KindEmail}
	case model.KindAddress:
		return []RecordKind{KindAddress}
	case model.KindOrganization:
		return []RecordKind{KindOrganization}
	case model.KindWebsite:
		return []RecordKind{KindWebsite}
	case model.KindSocialMedia:
		return []RecordKind{KindSocialMedia}
	case model.KindEvent:
		return []RecordKind{KindEvent}
	case model.KindRelation:
		return []RecordKind{KindRelation}
	case model.KindNote:
		return []RecordKind{KindNote}
	case model.KindPhoto:
		return []RecordKind{KindPhoto}
	default:
		return nil
	}
}
