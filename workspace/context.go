package workspace

// CompanySummary is the display subset of a tenant company.
type CompanySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"taxId,omitempty"`
}

// EstablishmentSummary is the display subset of a company sub-location.
type EstablishmentSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Context is the resolved tenant company + establishment pair.
type Context struct {
	CompanyID       string               `json:"companyId"`
	EstablishmentID string               `json:"establishmentId"`
	Company         CompanySummary       `json:"company"`
	Establishment   EstablishmentSummary `json:"establishment"`
}

// Valid reports whether the context is fully populated. Anything less is
// not a usable context.
func (c *Context) Valid() bool {
	return c != nil && c.CompanyID != "" && c.EstablishmentID != ""
}
