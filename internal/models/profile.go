package models

// UserProfile holds the onboarding wizard answers for one user.
// A flat preference record; no relational constraints beyond the owner.
type UserProfile struct {
	Role        string   `json:"role"`
	Industry    string   `json:"industry"`
	Niche       string   `json:"niche"`
	UseCases    []string `json:"useCases"`
	Platforms   []string `json:"platforms"`
	ImageTypes  []string `json:"imageTypes"`
	BrandStyle  []string `json:"brandStyle"`
	BrandColors []string `json:"brandColors"`
	Goals       []string `json:"goals"`
	Frequency   string   `json:"frequency"`
	Skipped     bool     `json:"skipped,omitempty"`
}
