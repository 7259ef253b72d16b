package contacts

import (
	"github.com/rolodexd/rolodexd/internal/label"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/store"
)

// Write-path field encoding: the inverse of the fetch package's row decoding.
// Every builder targets the shared adapter field vocabulary, so adapters stay
// free of canonical-model knowledge.

func contactFields(c model.Contact, partitionID string) store.Fields {
	fields := store.Fields{
		store.ColDisplayName:     displayName(c),
		store.ColStarred:         c.Starred,
		store.ColRingtone:        c.Ringtone,
		store.ColSendToVoicemail: c.SendToVoicemail,
		store.ColPartitionID:     partitionID,
	}
	if c.Photo != nil && len(c.Photo.Thumbnail) > 0 {
		fields[store.ColThumbnail] = c.Photo.Thumbnail
	}
	return fields
}

// displayName derives the read-only display form the store keeps denormalized
// on the contact row.
func displayName(c model.Contact) string {
	n := c.Name
	switch {
	case n.First != "" && n.Last != "":
		return n.First + " " + n.Last
	case n.First != "":
		return n.First
	case n.Last != "":
		return n.Last
	case n.Nickname != "":
		return n.Nickname
	case len(c.Organizations) > 0 && c.Organizations[0].Company != "":
		return c.Organizations[0].Company
	case len(c.Phones) > 0:
		return c.Phones[0].Number
	case len(c.Emails) > 0:
		return c.Emails[0].Address
	default:
		return c.DisplayName
	}
}

func structuredNameFields(n model.Name, partitionID string) store.Fields {
	return store.Fields{
		store.FieldFirst:          n.First,
		store.FieldLast:           n.Last,
		store.FieldMiddle:         n.Middle,
		store.FieldPrefix:         n.Prefix,
		store.FieldSuffix:         n.Suffix,
		store.FieldFirstPhonetic:  n.FirstPhonetic,
		store.FieldLastPhonetic:   n.LastPhonetic,
		store.FieldMiddlePhonetic: n.MiddlePhonetic,
		store.ColPartitionID:      partitionID,
	}
}

func nicknameFields(n model.Name, partitionID string) store.Fields {
	return store.Fields{
		store.FieldValue:     n.Nickname,
		store.ColPartitionID: partitionID,
	}
}

func phoneFields(p model.Phone, partitionID string) store.Fields {
	tag, custom := label.Phones.Encode(p.Label)
	return store.Fields{
		store.FieldValue:           p.Number,
		store.FieldNormalizedValue: p.Normalized,
		store.FieldPrimary:         p.Primary,
		store.FieldLabel:           tag,
		store.FieldCustomLabel:     custom,
		store.ColPartitionID:       partitionID,
	}
}

func emailFields(e model.Email, partitionID string) store.Fields {
	tag, custom := label.Emails.Encode(e.Label)
	return store.Fields{
		store.FieldValue:       e.Address,
		store.FieldPrimary:     e.Primary,
		store.FieldLabel:       tag,
		store.FieldCustomLabel: custom,
		store.ColPartitionID:   partitionID,
	}
}

func addressFields(a model.Address, partitionID string) store.Fields {
	tag, custom := label.Addresses.Encode(a.Label)
	return store.Fields{
		store.FieldValue:        a.Formatted,
		store.FieldStreet:       a.Street,
		store.FieldPOBox:        a.POBox,
		store.FieldNeighborhood: a.Neighborhood,
		store.FieldCity:         a.City,
		store.FieldState:        a.State,
		store.FieldPostalCode:   a.PostalCode,
		store.FieldCountry:      a.Country,
		store.FieldLabel:        tag,
		store.FieldCustomLabel:  custom,
		store.ColPartitionID:    partitionID,
	}
}

func organizationFields(o model.Organization, partitionID string) store.Fields {
	return store.Fields{
		store.FieldCompany:        o.Company,
		store.FieldTitle:          o.Title,
		store.FieldDepartment:     o.Department,
		store.FieldJobDescription: o.JobDescription,
		store.FieldSymbol:         o.Symbol,
		store.FieldPhoneticName:   o.PhoneticName,
		store.FieldOfficeLocation: o.OfficeLocation,
		store.ColPartitionID:      partitionID,
	}
}

func websiteFields(w model.Website, partitionID string) store.Fields {
	tag, custom := label.Websites.Encode(w.Label)
	return store.Fields{
		store.FieldValue:       w.URL,
		store.FieldLabel:       tag,
		store.FieldCustomLabel: custom,
		store.ColPartitionID:   partitionID,
	}
}

func socialMediaFields(s model.SocialMedia, partitionID string) store.Fields {
	tag, custom := label.SocialMedias.Encode(s.Label)
	return store.Fields{
		store.FieldValue:       s.UserName,
		store.FieldLabel:       tag,
		store.FieldCustomLabel: custom,
		store.ColPartitionID:   partitionID,
	}
}

func eventFields(e model.Event, partitionID string) store.Fields {
	tag, custom := label.Events.Encode(e.Label)
	fields := store.Fields{
		store.FieldMonth:       e.Month,
		store.FieldDay:         e.Day,
		store.FieldLabel:       tag,
		store.FieldCustomLabel: custom,
		store.ColPartitionID:   partitionID,
	}
	if e.Year != nil {
		fields[store.FieldYear] = *e.Year
	}
	return fields
}

func relationFields(r model.Relation, partitionID string) store.Fields {
	tag, custom := label.Relations.Encode(r.Label)
	return store.Fields{
		store.FieldValue:       r.Name,
		store.FieldLabel:       tag,
		store.FieldCustomLabel: custom,
		store.ColPartitionID:   partitionID,
	}
}

func noteFields(n model.Note, partitionID string) store.Fields {
	return store.Fields{
		store.FieldValue:     n.Note,
		store.ColPartitionID: partitionID,
	}
}

func photoFields(data []byte, partitionID string) store.Fields {
	return store.Fields{
		store.FieldPhoto:     data,
		store.ColPartitionID: partitionID,
	}
}

// withContact stamps the parent contact id onto a field bag.
func withContact(fields store.Fields, contactID string) store.Fields {
	fields[store.FieldContactID] = contactID
	return fields
}
