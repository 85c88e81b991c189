package service

import (
	"fmt"
	"time"

	"github.com/postdost/postdost/internal/model"
)

// SuggestionService produces date-aware prompt suggestions for the
// generator form.
type SuggestionService struct {
	now func() time.Time
	loc *time.Location
}

// NewSuggestionService creates a SuggestionService.
// The clock is injectable for tests via SetClock.
func NewSuggestionService() *SuggestionService {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// IST has no DST; a fixed offset is equivalent.
		loc = time.FixedZone("IST", 5*3600+30*60)
	}
	return &SuggestionService{
		now: time.Now,
		loc: loc,
	}
}

// SetClock overrides the time source. Test helper.
func (s *SuggestionService) SetClock(now func() time.Time) {
	s.now = now
}

// Suggest returns a post suggestion for the current date in the given
// language.
func (s *SuggestionService) Suggest(language model.Language) (string, error) {
	if !language.IsValid() {
		return "", &ValidationError{Fields: map[string]string{
			"language": fmt.Sprintf("unsupported language %q, must be one of %v", language, model.Languages()),
		}}
	}

	date := s.now().In(s.loc).Format("2/1/2006")
	return fmt.Sprintf("Create a culturally relevant post for %s in %s.", date, language), nil
}
