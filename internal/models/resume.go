package models

import "time"

// ContactInfo holds the first email, phone and name found in a résumé.
// An empty field means nothing was found.
type ContactInfo struct {
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

// IsEmpty reports whether no contact field was found.
func (c ContactInfo) IsEmpty() bool {
	return c.Email == "" && c.Phone == "" && c.Name == ""
}

// CandidateProfile is the analyzed form of an uploaded résumé.
type CandidateProfile struct {
	ID            string      `json:"id"`
	OriginalName  string      `json:"originalName,omitempty"`
	Format        string      `json:"format,omitempty"`
	ExtractedText string      `json:"extractedText,omitempty"`
	Keywords      []string    `json:"keywords"`
	Skills        []string    `json:"skills"`
	Contact       ContactInfo `json:"contactInfo"`
	// Experience and Education are empty when the word never occurs in the text.
	Experience string    `json:"experience,omitempty"`
	Education  string    `json:"education,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
