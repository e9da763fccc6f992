package checkout

import (
	"strings"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/validation"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

var validate = validation.New()

// ShippingForm holds the shipping fields. It is the only part of the form
// that is cached between page loads; it never carries payment data.
type ShippingForm struct {
	FullName       string `json:"fullName" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"omitempty,email,max=255"`
	Phone          string `json:"phone" validate:"required,shipphone"`
	Address        string `json:"address" validate:"required,min=5,max=255"`
	City           string `json:"city" validate:"required,min=2,max=100"`
	PostalCode     string `json:"postalCode" validate:"omitempty,max=32"`
	Country        string `json:"country" validate:"required,min=2,max=64"`
	ShippingMethod string `json:"shippingMethod" validate:"omitempty,oneof=standard express"`
}

// Form is the full checkout input.
type Form struct {
	ShippingForm
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cash card"`
}

func (f ShippingForm) normalized() ShippingForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = validation.NormalizePhone(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = strings.TrimSpace(f.Country)
	f.ShippingMethod = strings.ToLower(strings.TrimSpace(f.ShippingMethod))
	if f.ShippingMethod == "" {
		f.ShippingMethod = ShippingStandard
	}
	return f
}

func (f Form) normalized() Form {
	f.ShippingForm = f.ShippingForm.normalized()
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	return f
}

// Validate returns per-field messages, or nil when the form is acceptable.
func (f Form) Validate() validation.FieldErrors {
	if err := validate.Struct(f); err != nil {
		return validation.FromError(err)
	}
	return nil
}

func (f ShippingForm) address() orders.ShippingAddress {
	return orders.ShippingAddress{
		FullName:       f.FullName,
		Email:          f.Email,
		Phone:          f.Phone,
		Address:        f.Address,
		City:           f.City,
		PostalCode:     f.PostalCode,
		Country:        f.Country,
		ShippingMethod: f.ShippingMethod,
	}
}
