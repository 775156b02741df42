package domain

// DefaultMembershipValue is used for plan and status when the provider
// customer carries no gym metadata.
const DefaultMembershipValue = "trial"

// Address is a postal address
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// EmergencyContact is the person to call if something happens on the gym floor
type EmergencyContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Membership holds gym-specific attributes. The provider has no first-class fields
// for these, so they travel in the customer's metadata sidecar.
type Membership struct {
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartDate string `json:"startDate,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
}

// WithDefaults fills plan and status when metadata was missing upstream
func (m Membership) WithDefaults() Membership {
	if m.Plan == "" {
		m.Plan = DefaultMembershipValue
	}
	if m.Status == "" {
		m.Status = DefaultMembershipValue
	}
	return m
}

// NewMember is the local shape captured by the "add member" form
type NewMember struct {
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone,omitempty"`
	DateOfBirth      string           `json:"dateOfBirth,omitempty"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Membership       Membership       `json:"membership"`
}

// Member is the normalized customer record shown in the members list
type Member struct {
	ID               string           `json:"id"`
	Number           string           `json:"number,omitempty"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone,omitempty"`
	DateOfBirth      string           `json:"dateOfBirth,omitempty"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Plan             string           `json:"plan"`
	Status           string           `json:"status"`
	StartDate        string           `json:"startDate,omitempty"`
	DueDate          string           `json:"dueDate,omitempty"`
	CreatedOn        string           `json:"createdOn,omitempty"`
}
