package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

const (
	skillWeight      = 0.5
	experienceWeight = 0.25
	ratingWeight     = 0.25

	experienceCapYears = 20.0
	ratingCapStars     = 5.0

	maxRecommendations = 3
)

// MatchingService ranks opted-in active alumni against a student's declared
// skills. Scoring is a pure function of the stored profiles; results are never
// cached so a settings change is visible on the next request.
type MatchingService interface {
	RecommendMentors(ctx context.Context, actor Actor) (dto.RecommendationsResponse, error)
	AvailableMentors(ctx context.Context, actor Actor) (dto.AvailableMentorsResponse, error)
}

type matchingService struct {
	accounts   repository.AccountRepository
	alumniMeta repository.AlumniMetaRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewMatchingService constructs the matching engine.
func NewMatchingService(accounts repository.AccountRepository, alumniMeta repository.AlumniMetaRepository, logger zerolog.Logger) MatchingService {
	return &matchingService{
		accounts:   accounts,
		alumniMeta: alumniMeta,
		now:        time.Now,
		logger:     logger.With().Str("component", "matching_service").Logger(),
	}
}

type scoredMentor struct {
	record  repository.MentorRecord
	score   float64
	matches []string
}

// RecommendMentors returns the top candidates for the calling student, ordered
// by descending match score with ascending account id breaking ties. Mentors
// whose total score is zero are excluded entirely.
func (s *matchingService) RecommendMentors(ctx context.Context, actor Actor) (dto.RecommendationsResponse, error) {
	if actor.Role != models.RoleStudent {
		return dto.RecommendationsResponse{}, ErrForbidden
	}

	profile, err := s.accounts.GetProfile(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RecommendationsResponse{}, err
	}
	skills := normalizeList(profile.Skills)

	mentors, err := s.alumniMeta.ListEligibleMentors(ctx)
	if err != nil {
		return dto.RecommendationsResponse{}, err
	}

	if len(skills) == 0 {
		return dto.RecommendationsResponse{
			Recommended:  []dto.MentorRecommendation{},
			TotalMatches: 0,
			YourSkills:   []string{},
			Message:      "Add skills to your profile to get personalized mentor recommendations",
		}, nil
	}

	currentYear := s.now().UTC().Year()
	scored := make([]scoredMentor, 0, len(mentors))
	for _, mentor := range mentors {
		score, matches := s.scoreMentor(skills, mentor, currentYear)
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredMentor{record: mentor, score: score, matches: matches})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].record.Account.ID < scored[j].record.Account.ID
	})

	top := scored
	if len(top) > maxRecommendations {
		top = top[:maxRecommendations]
	}

	recommended := make([]dto.MentorRecommendation, 0, len(top))
	for _, candidate := range top {
		recommended = append(recommended, dto.MentorRecommendation{
			AlumniID:          candidate.record.Account.ID,
			DisplayName:       candidate.record.Profile.DisplayName,
			Company:           candidate.record.Profile.Company,
			Title:             candidate.record.Profile.Title,
			Bio:               candidate.record.Profile.Bio,
			Expertise:         candidate.record.Meta.Expertise,
			GradYear:          candidate.record.Meta.GradYear,
			YearsOfExperience: yearsOfExperience(candidate.record.Meta.GradYear, currentYear),
			AverageRating:     candidate.record.Meta.AverageRating,
			MatchScore:        candidate.score,
			SkillMatches:      candidate.matches,
		})
	}

	return dto.RecommendationsResponse{
		Recommended:  recommended,
		TotalMatches: len(scored),
		YourSkills:   skills,
	}, nil
}

// AvailableMentors returns the unranked mentor directory ordered by average
// rating, highest first.
func (s *matchingService) AvailableMentors(ctx context.Context, actor Actor) (dto.AvailableMentorsResponse, error) {
	if actor.Role != models.RoleStudent && actor.Role != models.RoleAdmin {
		return dto.AvailableMentorsResponse{}, ErrForbidden
	}

	records, err := s.alumniMeta.ListEligibleMentors(ctx)
	if err != nil {
		return dto.AvailableMentorsResponse{}, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Meta.AverageRating > records[j].Meta.AverageRating
	})

	mentors := make([]dto.AvailableMentor, 0, len(records))
	for _, record := range records {
		mentors = append(mentors, dto.AvailableMentor{
			AlumniID:      record.Account.ID,
			DisplayName:   record.Profile.DisplayName,
			Company:       record.Profile.Company,
			Title:         record.Profile.Title,
			Bio:           record.Profile.Bio,
			Expertise:     record.Meta.Expertise,
			GradYear:      record.Meta.GradYear,
			AverageRating: record.Meta.AverageRating,
		})
	}

	return dto.AvailableMentorsResponse{Mentors: mentors, TotalAvailable: len(mentors)}, nil
}

// scoreMentor computes the weighted match score. Skill overlap contributes up
// to 0.5 normalized by the smaller of the two skill sets, experience up to
// 0.25 capped at twenty years since graduation, and rating up to 0.25 on the
// five-star scale.
func (s *matchingService) scoreMentor(studentSkills []string, mentor repository.MentorRecord, currentYear int) (float64, []string) {
	expertise := normalizeList(mentor.Meta.Expertise)

	var skillScore float64
	matches := make([]string, 0, len(studentSkills))
	if len(expertise) > 0 {
		expertiseSet := make(map[string]struct{}, len(expertise))
		for _, e := range expertise {
			expertiseSet[strings.ToLower(e)] = struct{}{}
		}
		for _, skill := range studentSkills {
			if _, ok := expertiseSet[strings.ToLower(skill)]; ok {
				matches = append(matches, skill)
			}
		}
		denominator := len(studentSkills)
		if len(expertise) < denominator {
			denominator = len(expertise)
		}
		skillScore = float64(len(matches)) / float64(denominator) * skillWeight
	}

	years := yearsOfExperience(mentor.Meta.GradYear, currentYear)
	experienceRatio := float64(years) / experienceCapYears
	if experienceRatio > 1 {
		experienceRatio = 1
	}
	experienceScore := experienceRatio * experienceWeight

	ratingRatio := mentor.Meta.AverageRating / ratingCapStars
	if ratingRatio > 1 {
		ratingRatio = 1
	}
	if ratingRatio < 0 {
		ratingRatio = 0
	}
	ratingScore := ratingRatio * ratingWeight

	return skillScore + experienceScore + ratingScore, matches
}

func yearsOfExperience(gradYear, currentYear int) int {
	if gradYear <= 0 || gradYear > currentYear {
		return 0
	}
	return currentYear - gradYear
}
