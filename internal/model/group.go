package model

// Group is a named contact group within one partition.
type Group struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	PartitionID string `json:"partitionId,omitempty"`
}
