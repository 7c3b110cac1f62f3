package order

import (
	"errors"
	"fmt"
	"strings"

	"deliverytracker/internal/pkg/errs"
	"deliverytracker/internal/pkg/guard"
)

// ErrProductIsNotConstructed is returned when a zero Product is used.
var ErrProductIsNotConstructed = errs.NewValueIsRequiredError("product must be created via NewProduct constructor")

// Product is the catalogue item an order was placed for.
type Product struct { //nolint:recvcheck //using for validation
	id    string
	name  string
	image string
	price float64

	guard guard.ConstructorGuard
}

// NewProduct validates that id, name and image are non-blank and price is positive.
func NewProduct(id, name, image string, price float64) (Product, error) {
	p := Product{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setImage(image),
		p.setPrice(price),
	); err != nil {
		return Product{}, err
	}

	return p, nil
}

func (p Product) Validate() error {
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p Product) ID() string     { return p.id }
func (p Product) Name() string   { return p.name }
func (p Product) Image() string  { return p.image }
func (p Product) Price() float64 { return p.price }

func (p *Product) setID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	p.name = name
	return nil
}

func (p *Product) setImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return errs.NewValueIsRequiredError("productImage")
	}
	p.image = image
	return nil
}

func (p *Product) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("productPrice", fmt.Errorf("%v is not greater than 0", price))
	}
	p.price = price
	return nil
}
