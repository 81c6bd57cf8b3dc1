package models

// DegreeLevel is the closed set of education levels the extraction prompt allows.
type DegreeLevel string

const (
	DegreeAssociate DegreeLevel = "Associate"
	DegreeBachelor  DegreeLevel = "Bachelor"
	DegreeMaster    DegreeLevel = "Master"
	DegreePhD       DegreeLevel = "PhD"
)

// DegreeLevels lists every valid level in prompt order.
var DegreeLevels = []DegreeLevel{DegreeAssociate, DegreeBachelor, DegreeMaster, DegreePhD}

type Degree struct {
	Level   DegreeLevel `json:"level" validate:"required,oneof=Associate Bachelor Master PhD"`
	Program string      `json:"program" validate:"required"`
}

// ExtractedProfile is the structured result of one CV extraction. The JSON
// names are the contract with the completion service and must not change.
type ExtractedProfile struct {
	Name                  string   `json:"name"`
	CurrentEmployer       *string  `json:"currentEmployer"`
	CurrentPosition       *string  `json:"currentPosition"`
	Age                   int      `json:"age"`
	Location              string   `json:"location"`
	HardSkills            []string `json:"hardSkills"`
	ExperienceDescription string   `json:"experienceDescription"`
	YearsOfExperience     int      `json:"yearsOfExperience"`
	Degree                *Degree  `json:"degree"`
}
