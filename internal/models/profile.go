package models

// CandidateProfile is the canonical structured résumé produced by synthesis.
// Every field is always populated; absent information carries a placeholder.
type CandidateProfile struct {
	JobDescription  string            `json:"jobDescription"`
	PersonalDetails PersonalDetails   `json:"personalDetails"`
	SocialLinks     map[string]string `json:"socialLinks"`
	Education       []string          `json:"education"`
	Experience      []Experience      `json:"experience"`
	Projects        []Project         `json:"projects"`
	Skills          []string          `json:"skills"`
	Achievements    []string          `json:"achievements"`
	Certifications  []string          `json:"certifications"`
	OtherDetails    string            `json:"otherDetails"`
}

type PersonalDetails struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Portfolio string `json:"portfolio"`
	Summary   string `json:"summary"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// ProfileKeys lists the top-level keys every synthesized profile carries.
var ProfileKeys = []string{
	"jobDescription",
	"personalDetails",
	"socialLinks",
	"education",
	"experience",
	"projects",
	"skills",
	"achievements",
	"certifications",
	"otherDetails",
}
