package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UnknownProductName is the fallback used when a catalog entry's name cannot
// be resolved to a plain string at any nesting level.
const UnknownProductName = "Unknown Product"

// ProductName is a catalog display name that upstream may deliver either as a
// plain string or as an object wrapping another ProductName one or more levels
// deep (legacy catalog relations are echoed verbatim by the ERP backend).
type ProductName struct {
	value string
	child *ProductName
}

// NewProductName builds a flat, single-level name. Used by tests and local
// catalog fixtures.
func NewProductName(s string) ProductName {
	return ProductName{value: s}
}

// NestedProductName wraps an existing name one level deeper.
func NestedProductName(inner ProductName) ProductName {
	return ProductName{child: &inner}
}

// UnmarshalJSON accepts either a JSON string or an object carrying a nested
// "productName" field.
func (n *ProductName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.value = s
		n.child = nil
		return nil
	}

	var wrapper struct {
		ProductName *ProductName `json:"productName"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	n.value = ""
	n.child = wrapper.ProductName
	return nil
}

// MarshalJSON emits the flat string form when available, otherwise the nested
// object form, so a decoded catalog entry round-trips.
func (n ProductName) MarshalJSON() ([]byte, error) {
	if n.child != nil {
		return json.Marshal(struct {
			ProductName *ProductName `json:"productName"`
		}{ProductName: n.child})
	}
	return json.Marshal(n.value)
}

// Resolve walks the nesting to the deepest available string and returns it.
// When no level carries a non-empty string it returns UnknownProductName.
// Resolution is pure and is performed exactly once, when a line item is
// created; stored line items keep the resolved string and never re-resolve.
func (n ProductName) Resolve() string {
	if n.child != nil {
		if resolved := n.child.Resolve(); resolved != UnknownProductName {
			return resolved
		}
	}
	if n.value != "" {
		return n.value
	}
	return UnknownProductName
}

// CatalogProduct is a company-scoped product catalog entry supplied by the
// ERP backend. Read-only to the invoicing workflow; ID is unique within a
// company's catalog.
type CatalogProduct struct {
	ID                string          `json:"_id"`
	ProductName       ProductName     `json:"productName"`
	SKU               string          `json:"sku"`
	HSNCode           string          `json:"hsnCode"`
	Rate              decimal.Decimal `json:"rate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
}
