package validation

import (
	"strings"

	"aesthetx/internal/models"
)

// ShippingComplete reports whether every required shipping field is filled
// in. This is the check the checkout form runs before enabling payment.
func ShippingComplete(d models.ShippingDetails) bool {
	for _, f := range []string{d.FullName, d.Email, d.Phone, d.Address, d.City, d.Pincode} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Shipping validates the shipping details of an order
func (v *Validator) Shipping(d models.ShippingDetails) {
	v.Required("fullName", d.FullName)
	v.Required("email", d.Email)
	v.Required("phone", d.Phone)
	v.Required("address", d.Address)
	v.Required("city", d.City)
	v.Required("pincode", d.Pincode)
	if !v.Valid() {
		return
	}
	v.Email("email", d.Email)
	v.Phone("phone", d.Phone)
	v.Pincode("pincode", d.Pincode)
}

// Address validates a profile address when one is given
func (v *Validator) Address(a models.Address) {
	if a.IsZero() {
		return
	}
	v.Required("address.street", a.Street)
	v.Required("address.city", a.City)
	v.Required("address.pincode", a.Pincode)
	if strings.TrimSpace(a.Pincode) != "" {
		v.Pincode("address.pincode", a.Pincode)
	}
}

// Rating validates a review star rating
func (v *Validator) Rating(rating int) {
	v.Range("rating", float64(rating), MinRating, MaxRating)
}
