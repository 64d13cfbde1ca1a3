package entity

// Company is ERP reference data: the party an invoice or quotation is billed
// to, together with its delivery addresses and contact persons.
type Company struct {
	ID                string            `json:"_id"`
	CompanyName       string            `json:"companyName"`
	GSTNumber         string            `json:"gstNumber"`
	Phone             string            `json:"phone"`
	Email             string            `json:"email"`
	DeliveryAddresses []DeliveryAddress `json:"deliveryAddresses"`
	ContactPersons    []ContactPerson   `json:"contactPersons"`
}

// DeliveryAddress is the structured address+pincode pair a user picks from.
// The draft stores only the flattened text; the structure is not kept.
type DeliveryAddress struct {
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

// Flatten derives the free-text delivery address stored on the draft.
func (a DeliveryAddress) Flatten() string {
	if a.Pincode == "" {
		return a.Address
	}
	return a.Address + " - " + a.Pincode
}

// ContactPerson is a recipient candidate for the persisted invoice.
type ContactPerson struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
