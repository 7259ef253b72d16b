package fetch

import (
	"time"

	"github.com/rolodexd/rolodexd/internal/label"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/store"
)

// scalarContact builds the contact-level partial from one contact row.
func scalarContact(row store.Row) model.Contact {
	c := model.Contact{
		ID:              row.DataID,
		DisplayName:     row.Fields.String(store.ColDisplayName),
		Starred:         row.Fields.Bool(store.ColStarred),
		Ringtone:        row.Fields.String(store.ColRingtone),
		SendToVoicemail: row.Fields.Bool(store.ColSendToVoicemail),
	}
	if row.PartitionID != "" {
		c.Partitions = []model.Partition{{ID: row.PartitionID}}
	}
	if raw, ok := row.Fields[store.ColUpdatedAt]; ok {
		switch v := raw.(type) {
		case time.Time:
			c.LastUpdated = v
		case string:
			if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				c.LastUpdated = ts
			}
		}
	}
	if thumb := row.Fields.Bytes(store.ColThumbnail); len(thumb) > 0 {
		c.Photo = &model.Photo{Thumbnail: thumb}
	}
	return c
}

// dataPartial converts one data record into a partial contact holding exactly
// that property value.
func dataPartial(row store.Row) model.Contact {
	c := model.Contact{ID: row.ContactID}
	if row.PartitionID != "" {
		c.Partitions = []model.Partition{{ID: row.PartitionID}}
	}
	meta := &model.PropertyMetadata{DataID: row.DataID, PartitionID: row.PartitionID}

	switch row.Kind {
	case store.KindStructuredName:
		c.Name = model.Name{
			First:          row.Fields.String(store.FieldFirst),
			Last:           row.Fields.String(store.FieldLast),
			Middle:         row.Fields.String(store.FieldMiddle),
			Prefix:         row.Fields.String(store.FieldPrefix),
			Suffix:         row.Fields.String(store.FieldSuffix),
			FirstPhonetic:  row.Fields.String(store.FieldFirstPhonetic),
			LastPhonetic:   row.Fields.String(store.FieldLastPhonetic),
			MiddlePhonetic: row.Fields.String(store.FieldMiddlePhonetic),
			Metadata:       meta,
		}
	case store.KindNickname:
		c.Name = model.Name{
			Nickname:         row.Fields.String(store.FieldValue),
			NicknameMetadata: meta,
		}
	case store.KindPhone:
		c.Phones = []model.Phone{{
			Number:     row.Fields.String(store.FieldValue),
			Normalized: row.Fields.String(store.FieldNormalizedValue),
			Primary:    row.Fields.Bool(store.FieldPrimary),
			Label:      label.Phones.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata:   meta,
		}}
	case store.KindEmail:
		c.Emails = []model.Email{{
			Address:  row.Fields.String(store.FieldValue),
			Primary:  row.Fields.Bool(store.FieldPrimary),
			Label:    label.Emails.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata: meta,
		}}
	case store.KindAddress:
		c.Addresses = []model.Address{{
			Formatted:    row.Fields.String(store.FieldValue),
			Street:       row.Fields.String(store.FieldStreet),
			POBox:        row.Fields.String(store.FieldPOBox),
			Neighborhood: row.Fields.String(store.FieldNeighborhood),
			City:         row.Fields.String(store.FieldCity),
			State:        row.Fields.String(store.FieldState),
			PostalCode:   row.Fields.String(store.FieldPostalCode),
			Country:      row.Fields.String(store.FieldCountry),
			Label:        label.Addresses.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata:     meta,
		}}
	case store.KindOrganization:
		c.Organizations = []model.Organization{{
			Company:        row.Fields.String(store.FieldCompany),
			Title:          row.Fields.String(store.FieldTitle),
			Department:     row.Fields.String(store.FieldDepartment),
			JobDescription: row.Fields.String(store.FieldJobDescription),
			Symbol:         row.Fields.String(store.FieldSymbol),
			PhoneticName:   row.Fields.String(store.FieldPhoneticName),
			OfficeLocation: row.Fields.String(store.FieldOfficeLocation),
			Metadata:       meta,
		}}
	case store.KindWebsite:
		c.Websites = []model.Website{{
			URL:      row.Fields.String(store.FieldValue),
			Label:    label.Websites.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata: meta,
		}}
	case store.KindSocialMedia:
		c.SocialMedias = []model.SocialMedia{{
			UserName: row.Fields.String(store.FieldValue),
			Label:    label.SocialMedias.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata: meta,
		}}
	case store.KindEvent:
		c.Events = []model.Event{{
			Year:     row.Fields.IntPtr(store.FieldYear),
			Month:    row.Fields.Int(store.FieldMonth),
			Day:      row.Fields.Int(store.FieldDay),
			Label:    label.Events.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata: meta,
		}}
	case store.KindRelation:
		c.Relations = []model.Relation{{
			Name:     row.Fields.String(store.FieldValue),
			Label:    label.Relations.Decode(row.Fields.Int(store.FieldLabel), row.Fields.String(store.FieldCustomLabel)),
			Metadata: meta,
		}}
	case store.KindNote:
		c.Notes = []model.Note{{
			Note:     row.Fields.String(store.FieldValue),
			Metadata: meta,
		}}
	}
	return c
}
