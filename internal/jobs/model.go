package jobs

// ExperienceLevel is the seniority inferred from a job posting.
type ExperienceLevel string

const (
	LevelJunior      ExperienceLevel = "junior"
	LevelMid         ExperienceLevel = "mid"
	LevelSenior      ExperienceLevel = "senior"
	LevelUnspecified ExperienceLevel = "unspecified"
)

// ParsedJobDescription is the structured view of a raw job posting.
type ParsedJobDescription struct {
	Title            string          `json:"title"`
	ExperienceLevel  ExperienceLevel `json:"experienceLevel"`
	Skills           []string        `json:"skills"`
	Responsibilities []string        `json:"responsibilities"`
}

func emptyParsed() ParsedJobDescription {
	return ParsedJobDescription{
		ExperienceLevel:  LevelUnspecified,
		Skills:           []string{},
		Responsibilities: []string{},
	}
}
