package domain

// Contact is the checkout form as submitted by the customer.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
	Payment string `json:"pay,omitempty"`
}
