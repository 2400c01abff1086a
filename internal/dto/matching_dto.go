package dto

// MentorRecommendation is one scored mentor candidate.
type MentorRecommendation struct {
	AlumniID          uint     `json:"alumni_id"`
	DisplayName       string   `json:"display_name"`
	Company           string   `json:"company"`
	Title             string   `json:"title"`
	Bio               string   `json:"bio"`
	Expertise         []string `json:"expertise"`
	GradYear          int      `json:"grad_year"`
	YearsOfExperience int      `json:"years_of_experience"`
	AverageRating     float64  `json:"average_rating"`
	MatchScore        float64  `json:"match_score"`
	SkillMatches      []string `json:"skill_matches"`
}

// RecommendationsResponse wraps the personalized top-3 mentor ranking.
type RecommendationsResponse struct {
	Recommended  []MentorRecommendation `json:"recommended"`
	TotalMatches int                    `json:"total_matches"`
	YourSkills   []string               `json:"your_skills"`
	Message      string                 `json:"message,omitempty"`
}

// AvailableMentor is one entry of the unranked mentor directory.
type AvailableMentor struct {
	AlumniID      uint     `json:"alumni_id"`
	DisplayName   string   `json:"display_name"`
	Company       string   `json:"company"`
	Title         string   `json:"title"`
	Bio           string   `json:"bio"`
	Expertise     []string `json:"expertise"`
	GradYear      int      `json:"grad_year"`
	AverageRating float64  `json:"average_rating"`
}

// AvailableMentorsResponse wraps the browsable mentor directory.
type AvailableMentorsResponse struct {
	Mentors        []AvailableMentor `json:"mentors"`
	TotalAvailable int               `json:"total_available"`
}
