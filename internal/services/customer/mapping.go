package customer

import (
	"strings"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
)

// ToMember converts a provider customer into the members-list record.
// Missing metadata falls back to the trial plan and status.
func ToMember(c ports.Customer) domain.Member {
	m := domain.Member{
		ID:          c.ID,
		Number:      c.Number,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Name:        strings.TrimSpace(c.FirstName + " " + c.LastName),
		Email:       c.Email,
		Phone:       c.MobilePhone,
		DateOfBirth: c.DateOfBirth,
		CreatedOn:   c.CreatedOn,
	}

	if c.Address != nil {
		m.Address = domain.Address{
			Line1:      c.Address.Address1,
			Line2:      c.Address.Address2,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Country:    c.Address.CountryCode,
		}
	}

	var membership domain.Membership
	if c.Metadata != nil {
		membership = domain.Membership{
			Plan:      c.Metadata.Plan,
			Status:    c.Metadata.Status,
			StartDate: c.Metadata.StartDate,
			DueDate:   c.Metadata.DueDate,
		}
		m.EmergencyContact = domain.EmergencyContact{
			Name:  c.Metadata.EmergencyContactName,
			Phone: c.Metadata.EmergencyContactPhone,
		}
	}
	membership = membership.WithDefaults()
	m.Plan = membership.Plan
	m.Status = membership.Status
	m.StartDate = membership.StartDate
	m.DueDate = membership.DueDate

	return m
}

// ToCustomer maps the local member form into the provider schema
func ToCustomer(nm domain.NewMember) *ports.Customer {
	c := &ports.Customer{
		FirstName:   strings.TrimSpace(nm.FirstName),
		LastName:    strings.TrimSpace(nm.LastName),
		Email:       strings.TrimSpace(nm.Email),
		MobilePhone: nm.Phone,
		DateOfBirth: nm.DateOfBirth,
	}

	if nm.Address != (domain.Address{}) {
		c.Address = &ports.CustomerAddress{
			Address1:    nm.Address.Line1,
			Address2:    nm.Address.Line2,
			City:        nm.Address.City,
			State:       nm.Address.State,
			PostalCode:  nm.Address.PostalCode,
			CountryCode: nm.Address.Country,
		}
	}

	membership := nm.Membership.WithDefaults()
	c.Metadata = &ports.CustomerMetadata{
		Plan:                  membership.Plan,
		Status:                membership.Status,
		StartDate:             membership.StartDate,
		DueDate:               membership.DueDate,
		EmergencyContactName:  nm.EmergencyContact.Name,
		EmergencyContactPhone: nm.EmergencyContact.Phone,
	}

	return c
}

// toNewMember rebuilds the form shape from an existing member, used when copying to another branch
func toNewMember(m domain.Member) domain.NewMember {
	return domain.NewMember{
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		DateOfBirth:      m.DateOfBirth,
		Address:          m.Address,
		EmergencyContact: m.EmergencyContact,
		Membership: domain.Membership{
			Plan:      m.Plan,
			Status:    m.Status,
			StartDate: m.StartDate,
			DueDate:   m.DueDate,
		},
	}
}

// ToPaymentMethods normalizes a customer's stored payment methods
func ToPaymentMethods(list *ports.PaymentMethodList) []domain.PaymentMethod {
	if list == nil {
		return []domain.PaymentMethod{}
	}
	out := make([]domain.PaymentMethod, 0, len(list.Data))
	for _, rec := range list.Data {
		out = append(out, domain.NewPaymentMethod(rec.PaymentMethodToken, rec.Union(), rec.Primary, rec.Valid))
	}
	return out
}
