package domain

import "strings"

// Branch is a gym location with its own provider credential set
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Credentials are the provider credentials for one branch.
// Never serialised back to clients.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	MerchantID   string `json:"merchantId"`
}

// MissingFields lists the empty credential fields, in a stable order
func (c Credentials) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "clientId")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "clientSecret")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.Password) == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(c.MerchantID) == "" {
		missing = append(missing, "merchantId")
	}
	return missing
}

// BranchCredentials binds a branch to its credential set
type BranchCredentials struct {
	Branch      Branch
	Credentials Credentials
}
