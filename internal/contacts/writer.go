package contacts

import (
	"bytes"

	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/reconcile"
	"github.com/rolodexd/rolodexd/internal/store"
)

// keyedValue is what the list reconciliation needs from a property value.
type keyedValue interface {
	reconcile.Keyed
	PartitionID() string
}

// listOps reconciles one property list and renders the outcome as store
// mutations. Inserts join the target partition; updates stay in the
// partition that already owns the record.
func listOps[V keyedValue](
	oldList, newList []V,
	kind store.RecordKind,
	contactID, partitionID string,
	encode func(V, string) store.Fields,
) []store.Mutation {
	changes := reconcile.Diff(oldList, newList)
	return reconcile.Mutations(changes,
		func(v V) store.Mutation {
			return store.Insert(kind, withContact(encode(v, partitionID), contactID))
		},
		func(v V) store.Mutation {
			part := v.PartitionID()
			if part == "" {
				part = partitionID
			}
			return store.Update(kind, v.StableID(), encode(v, part))
		},
		func(v V) store.Mutation {
			return store.Delete(kind, v.StableID())
		},
	)
}

// nameRecord is one physical half of the name property (structured name or
// nickname) prepared for replace-only reconciliation.
type nameRecord struct {
	kind   store.RecordKind
	id     string
	fields store.Fields
}

func (r nameRecord) StableID() string { return r.id }

// nameOps implements the replace-only reconciliation for the name property:
// the store splits it across two record kinds whose halves carry no
// independent identities in the canonical model, so a change deletes both
// physical records and reinserts from the new value. An unchanged name
// produces no mutations.
func nameOps(old, next model.Name, contactID, partitionID string) []store.Mutation {
	if old.Equal(next) {
		return nil
	}
	var olds, news []nameRecord
	if old.Metadata != nil && old.Metadata.DataID != "" {
		olds = append(olds, nameRecord{kind: store.KindStructuredName, id: old.Metadata.DataID})
	}
	if old.NicknameMetadata != nil && old.NicknameMetadata.DataID != "" {
		olds = append(olds, nameRecord{kind: store.KindNickname, id: old.NicknameMetadata.DataID})
	}
	if !next.IsEmpty() {
		news = append(news, nameRecord{
			kind:   store.KindStructuredName,
			fields: withContact(structuredNameFields(next, partitionID), contactID),
		})
	}
	if next.Nickname != "" {
		news = append(news, nameRecord{
			kind:   store.KindNickname,
			fields: withContact(nicknameFields(next, partitionID), contactID),
		})
	}
	return reconcile.Mutations(reconcile.Replace(olds, news),
		func(r nameRecord) store.Mutation { return store.Insert(r.kind, r.fields) },
		func(r nameRecord) store.Mutation { return store.Update(r.kind, r.id, r.fields) },
		func(r nameRecord) store.Mutation { return store.Delete(r.kind, r.id) },
	)
}

// createOps renders a brand-new contact as one insert batch. The contact row
// is op 0; every data row back-references it since its real id does not
// exist until the chunk commits.
func createOps(c model.Contact, partitionID string) []store.Mutation {
	ops := []store.Mutation{store.Insert(store.KindContact, contactFields(c, partitionID))}
	const contactRef = 0
	add := func(kind store.RecordKind, fields store.Fields) {
		ops = append(ops, store.InsertRef(kind, fields, contactRef))
	}

	if !c.Name.IsEmpty() {
		add(store.KindStructuredName, structuredNameFields(c.Name, partitionID))
	}
	if c.Name.Nickname != "" {
		add(store.KindNickname, nicknameFields(c.Name, partitionID))
	}
	for _, p := range c.Phones {
		add(store.KindPhone, phoneFields(p, partitionID))
	}
	for _, e := range c.Emails {
		add(store.KindEmail, emailFields(e, partitionID))
	}
	for _, a := range c.Addresses {
		add(store.KindAddress, addressFields(a, partitionID))
	}
	for _, o := range c.Organizations {
		add(store.KindOrganization, organizationFields(o, partitionID))
	}
	for _, w := range c.Websites {
		add(store.KindWebsite, websiteFields(w, partitionID))
	}
	for _, s := range c.SocialMedias {
		add(store.KindSocialMedia, socialMediaFields(s, partitionID))
	}
	for _, e := range c.Events {
		add(store.KindEvent, eventFields(e, partitionID))
	}
	for _, r := range c.Relations {
		add(store.KindRelation, relationFields(r, partitionID))
	}
	for _, n := range c.Notes {
		add(store.KindNote, noteFields(n, partitionID))
	}
	if c.Photo != nil && len(c.Photo.FullSize) > 0 {
		add(store.KindPhoto, photoFields(c.Photo.FullSize, partitionID))
	}
	return ops
}

// updateOps diffs the fetched snapshot against the caller's new value,
// touching only the property kinds the snapshot actually loaded.
func updateOps(old, next model.Contact, partitionID string) []store.Mutation {
	props := next.Metadata.Properties
	var ops []store.Mutation

	if fields := scalarDiff(old, next, props); len(fields) > 0 {
		ops = append(ops, store.Update(store.KindContact, next.ID, fields))
	}
	if props.Has(model.KindName) {
		ops = append(ops, nameOps(old.Name, next.Name, next.ID, partitionID)...)
	}
	if props.Has(model.KindPhone) {
		ops = append(ops, listOps(old.Phones, next.Phones, store.KindPhone, next.ID, partitionID, phoneFields)...)
	}
	if props.Has(model.KindEmail) {
		ops = append(ops, listOps(old.Emails, next.Emails, store.KindEmail, next.ID, partitionID, emailFields)...)
	}
	if props.Has(model.KindAddress) {
		ops = append(ops, listOps(old.Addresses, next.Addresses, store.KindAddress, next.ID, partitionID, addressFields)...)
	}
	if props.Has(model.KindOrganization) {
		ops = append(ops, listOps(old.Organizations, next.Organizations, store.KindOrganization, next.ID, partitionID, organizationFields)...)
	}
	if props.Has(model.KindWebsite) {
		ops = append(ops, listOps(old.Websites, next.Websites, store.KindWebsite, next.ID, partitionID, websiteFields)...)
	}
	if props.Has(model.KindSocialMedia) {
		ops = append(ops, listOps(old.SocialMedias, next.SocialMedias, store.KindSocialMedia, next.ID, partitionID, socialMediaFields)...)
	}
	if props.Has(model.KindEvent) {
		ops = append(ops, listOps(old.Events, next.Events, store.KindEvent, next.ID, partitionID, eventFields)...)
	}
	if props.Has(model.KindRelation) {
		ops = append(ops, listOps(old.Relations, next.Relations, store.KindRelation, next.ID, partitionID, relationFields)...)
	}
	if props.Has(model.KindNote) {
		ops = append(ops, listOps(old.Notes, next.Notes, store.KindNote, next.ID, partitionID, noteFields)...)
	}
	return ops
}

// scalarDiff collects changed contact-row scalars. The thumbnail column only
// participates when the snapshot loaded it, so an un-fetched thumbnail never
// gets clobbered.
func scalarDiff(old, next model.Contact, props model.PropertySet) store.Fields {
	fields := store.Fields{}
	if old.Starred != next.Starred {
		fields[store.ColStarred] = next.Starred
	}
	if old.Ringtone != next.Ringtone {
		fields[store.ColRingtone] = next.Ringtone
	}
	if old.SendToVoicemail != next.SendToVoicemail {
		fields[store.ColSendToVoicemail] = next.SendToVoicemail
	}
	if props.Has(model.KindThumbnail) {
		oldThumb := []byte(nil)
		if old.Photo != nil {
			oldThumb = old.Photo.Thumbnail
		}
		newThumb := []byte(nil)
		if next.Photo != nil {
			newThumb = next.Photo.Thumbnail
		}
		if !bytes.Equal(oldThumb, newThumb) {
			fields[store.ColThumbnail] = newThumb
		}
	}
	return fields
}
