package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product entry within a draft invoice. The display name is
// resolved from the catalog exactly once, at creation time; edits are
// delete-and-re-add, so quantity and rate never change after construction.
type LineItem struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int64           `json:"quantity"`
	Rate             decimal.Decimal `json:"rate"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ReworkRequested  bool            `json:"rework_requested,omitempty"`
	OtherProductNote string          `json:"other_product_note,omitempty"`
	BenefitQuantity  int64           `json:"benefit_quantity,omitempty"`
}

// LineItemOptions carries the optional per-line flags captured on the add
// form. ReworkRequested and OtherProductNote are mutually exclusive.
type LineItemOptions struct {
	ReworkRequested  bool
	OtherProductNote string
	BenefitQuantity  int64
}

// NewLineItem builds a line item from a catalog entry, resolving the display
// name and deriving the total. The id is generated locally and is unique
// within the current draft.
func NewLineItem(product *CatalogProduct, quantity int64, rate decimal.Decimal, opts LineItemOptions) *LineItem {
	return &LineItem{
		ID:               uuid.New().String(),
		ProductID:        product.ID,
		ProductName:      product.ProductName.Resolve(),
		Quantity:         quantity,
		Rate:             rate,
		TotalAmount:      rate.Mul(decimal.NewFromInt(quantity)),
		ReworkRequested:  opts.ReworkRequested,
		OtherProductNote: opts.OtherProductNote,
		BenefitQuantity:  opts.BenefitQuantity,
	}
}

// QualifiesForBenefit reports whether this line triggers the employee-benefit
// and material-usage side effects after a successful persist.
func (li *LineItem) QualifiesForBenefit() bool {
	return li.ReworkRequested || li.OtherProductNote != ""
}
