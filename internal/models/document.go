package models

// Registrant is one roster row for a person who receives a certificate.
// It is read from a single CSV row and dropped once its document is produced.
type Registrant struct {
	ChineseName string `json:"chineseName"`
	DharmaName  string `json:"dharmaName,omitempty"`
	Location    string `json:"location"`
}

// HasDharmaName reports whether the row qualifies for a certificate.
func (r Registrant) HasDharmaName() bool {
	return r.DharmaName != ""
}
