package order

import (
	"errors"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address instance was not created
// through the NewAddress factory method.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is a value object representing the shipping destination of an order.
// It is immutable after creation: an order keeps the address it was placed
// with for its whole lifecycle.
type Address struct { //nolint:recvcheck //using for validation
	street     string
	city       string
	postalCode string
	country    string

	guard guard.ConstructorGuard
}

// NewAddress creates a shipping address with validation.
// Street, city, and country are required; the postal code may be empty for
// countries that do not use one.
func NewAddress(street, city, postalCode, country string) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
		address.setCountry(country),
	); err != nil {
		return Address{}, err
	}

	address.postalCode = postalCode
	return address, nil
}

// Validate ensures the Address instance was properly constructed through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code, possibly empty.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country of the address.
func (a Address) Country() string {
	return a.country
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setCountry(country string) error {
	if country == "" {
		return errs.NewValueIsRequiredError("country")
	}
	a.country = country
	return nil
}
