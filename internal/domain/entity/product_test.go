package entity

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProductName_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "plain string",
			data: `"Toner Cartridge"`,
			want: "Toner Cartridge",
		},
		{
			name: "one level of nesting",
			data: `{"productName": "Drum Unit"}`,
			want: "Drum Unit",
		},
		{
			name: "two levels of nesting",
			data: `{"productName": {"productName": "Fuser Assembly"}}`,
			want: "Fuser Assembly",
		},
		{
			name: "empty object falls back",
			data: `{}`,
			want: UnknownProductName,
		},
		{
			name: "nested empty string falls back",
			data: `{"productName": ""}`,
			want: UnknownProductName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pn ProductName
			if err := json.Unmarshal([]byte(tt.data), &pn); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := pn.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProductName_ResolvePrefersDeepestString(t *testing.T) {
	// The outer level also carries a string; the deepest one wins.
	outer := ProductName{value: "outer"}
	outer.child = &ProductName{value: "inner"}

	if got := outer.Resolve(); got != "inner" {
		t.Errorf("Resolve() = %q, want %q", got, "inner")
	}
}

func TestProductName_ResolveFallsBackToOuterValue(t *testing.T) {
	outer := ProductName{value: "outer"}
	outer.child = &ProductName{} // no string at the deeper level

	if got := outer.Resolve(); got != "outer" {
		t.Errorf("Resolve() = %q, want %q", got, "outer")
	}
}

func TestProductName_RoundTrip(t *testing.T) {
	data := `{"productName":{"productName":"Fuser Assembly"}}`

	var pn ProductName
	if err := json.Unmarshal([]byte(data), &pn); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out, err := json.Marshal(pn)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != data {
		t.Errorf("round trip = %s, want %s", out, data)
	}
}

func TestNewLineItem_ResolvesNameOnce(t *testing.T) {
	product := &CatalogProduct{
		ID:          "prod-1",
		ProductName: NestedProductName(NewProductName("Ink Bottle")),
		Rate:        decimal.NewFromInt(100),
	}

	item := NewLineItem(product, 2, product.Rate, LineItemOptions{})

	if item.ProductName != "Ink Bottle" {
		t.Errorf("ProductName = %q, want %q", item.ProductName, "Ink Bottle")
	}
	if item.ID == "" {
		t.Error("line item ID should be generated")
	}
	if !item.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("TotalAmount = %s, want 200", item.TotalAmount)
	}
}

func TestLineItem_QualifiesForBenefit(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want bool
	}{
		{"plain item", LineItem{}, false},
		{"rework requested", LineItem{ReworkRequested: true}, true},
		{"other product note", LineItem{OtherProductNote: "replacement casing"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.QualifiesForBenefit(); got != tt.want {
				t.Errorf("QualifiesForBenefit() = %v, want %v", got, tt.want)
			}
		})
	}
}
