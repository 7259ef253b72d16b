package model

// Name is the single-valued structured name. The store backs it with two
// physical record kinds (structured name and nickname), merged into this one
// logical value on read and split into at most two records on write, so the
// two metadata blocks are tracked independently.
type Name struct {
	First            string            `json:"first,omitempty"`
	Last             string            `json:"last,omitempty"`
	Middle           string            `json:"middle,omitempty"`
	Prefix           string            `json:"prefix,omitempty"`
	Suffix           string            `json:"suffix,omitempty"`
	FirstPhonetic    string            `json:"firstPhonetic,omitempty"`
	LastPhonetic     string            `json:"lastPhonetic,omitempty"`
	MiddlePhonetic   string            `json:"middlePhonetic,omitempty"`
	Nickname         string            `json:"nickname,omitempty"`
	Metadata         *PropertyMetadata `json:"metadata,omitempty"`
	NicknameMetadata *PropertyMetadata `json:"nicknameMetadata,omitempty"`
}

// IsEmpty reports whether every structured component is blank. The nickname
// does not count: a nickname-only partial fetch must still merge into a later
// structured-name row.
func (n Name) IsEmpty() bool {
	return n.First == "" && n.Last == "" && n.Middle == "" &&
		n.Prefix == "" && n.Suffix == "" &&
		n.FirstPhonetic == "" && n.LastPhonetic == "" && n.MiddlePhonetic == ""
}

// IsBlank reports whether the name carries no data at all, nickname included.
func (n Name) IsBlank() bool {
	return n.IsEmpty() && n.Nickname == ""
}

// StableID returns the structured-name record identity, or "" for a new name.
func (n Name) StableID() string { return stableID(n.Metadata) }

// Equal compares all semantic fields, ignoring metadata.
func (n Name) Equal(other Name) bool {
	return n.First == other.First && n.Last == other.Last &&
		n.Middle == other.Middle && n.Prefix == other.Prefix &&
		n.Suffix == other.Suffix && n.FirstPhonetic == other.FirstPhonetic &&
		n.LastPhonetic == other.LastPhonetic && n.MiddlePhonetic == other.MiddlePhonetic &&
		n.Nickname == other.Nickname
}
