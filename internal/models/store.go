package models

// StoreStatus mirrors the server-side seller approval workflow.
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "pending"
	StoreStatusApproved StoreStatus = "approved"
	StoreStatusRejected StoreStatus = "rejected"
)

// Store is a seller storefront. A nil *Store means the current user has no
// store membership at all.
type Store struct {
	ID          string      `json:"id"`
	StoreName   string      `json:"storeName"`
	Description string      `json:"description,omitempty"`
	Logo        string      `json:"logo,omitempty"`
	Status      StoreStatus `json:"status"`
	OwnerID     string      `json:"owner_id,omitempty"`
}

// IsApproved returns true when the store has passed the approval workflow
// and may operate a seller dashboard.
func (s *Store) IsApproved() bool {
	return s != nil && s.Status == StoreStatusApproved
}
