package validation

import (
	"testing"

	"aesthetx/internal/models"

	"github.com/stretchr/testify/assert"
)

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Pune",
		Pincode:  "411001",
	}
}

func TestShippingComplete(t *testing.T) {
	assert.True(t, ShippingComplete(validShipping()))

	blanks := []func(*models.ShippingDetails){
		func(d *models.ShippingDetails) { d.FullName = "" },
		func(d *models.ShippingDetails) { d.Email = " " },
		func(d *models.ShippingDetails) { d.Phone = "" },
		func(d *models.ShippingDetails) { d.Address = "" },
		func(d *models.ShippingDetails) { d.City = "\t" },
		func(d *models.ShippingDetails) { d.Pincode = "" },
	}
	for _, blank := range blanks {
		d := validShipping()
		blank(&d)
		assert.False(t, ShippingComplete(d))
	}

	d := validShipping()
	d.State = ""
	assert.True(t, ShippingComplete(d), "state is optional")
}

func TestValidatorShipping(t *testing.T) {
	v := New()
	v.Shipping(validShipping())
	assert.True(t, v.Valid())

	d := validShipping()
	d.Phone = "12345"
	d.Pincode = "4110"
	v = New()
	v.Shipping(d)
	assert.Contains(t, v.Errors, "phone")
	assert.Contains(t, v.Errors, "pincode")
}

func TestValidatorPassword(t *testing.T) {
	v := New()
	v.Password("password", "12345")
	assert.False(t, v.Valid())

	v = New()
	v.Password("password", "123456")
	assert.True(t, v.Valid())
}

func TestStruct(t *testing.T) {
	type req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	assert.Nil(t, Struct(req{Email: "a@b.co", Password: "secret"}))

	errs := Struct(req{Email: "nope", Password: "123"})
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must be at least 6", errs["password"])
}
