package domain

// VendorLink is the entry link handed to a vendor for one country block.
type VendorLink struct {
	Country    string `json:"country"`
	VendorID   string `json:"vendorId"`
	VendorName string `json:"vendorName"`
	IsActive   bool   `json:"isActive"`
	StartURL   string `json:"startUrl"`
}
