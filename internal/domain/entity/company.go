package entity

// CompanyDetails holds the practice letterhead details printed on reports.
type CompanyDetails struct {
	Name           string `json:"name"`
	RegistrationNo string `json:"registration_no,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
}
