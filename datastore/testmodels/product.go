package testmodels

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-openapi/strfmt"
)

type Product struct {

	// Brand of the product.
	Brand string `json:"Brand,omitempty"`

	// Timestamp when the product was created.
	// Required: true
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt"`

	// Name of the product.
	// Required: true
	Name *string `json:"Name"`

	// Unit price.
	Price float64 `json:"Price,omitempty"`

	// Stock keeping unit, unique per product.
	// Required: true
	SKU *string `json:"Sku"`

	// Timestamp when the product was last updated.
	// Required: true
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt"`
}

// DocumentID returns the SKU.
func (p Product) DocumentID() string {
	return aws.ToString(p.SKU)
}
