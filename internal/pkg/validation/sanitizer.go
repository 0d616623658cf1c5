package validation

import (
	"regexp"
	"strings"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// maxFieldRunes caps free-text display fields. Team names are never cut.
const maxFieldRunes = 200

var (
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Sanitizer cleans display fields of picks. The normalized team key of a
// sanitized pick is unchanged.
type Sanitizer struct{}

// NewSanitizer creates a new sanitizer
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// SanitizePick sanitizes pick data in place
func (s *Sanitizer) SanitizePick(pick *models.PickRecord) {
	if pick == nil {
		return
	}
	pick.Matchup = s.sanitizeString(pick.Matchup)
	pick.TeamName = s.sanitizeTeamName(pick.TeamName)
	pick.Bookmaker = s.sanitizeBookmaker(pick.Bookmaker)
	pick.Side = s.sanitizeSide(pick.Side)
}

// SanitizePicks returns sanitized copies of picks
func (s *Sanitizer) SanitizePicks(picks []models.PickRecord) []models.PickRecord {
	out := make([]models.PickRecord, len(picks))
	copy(out, picks)
	for i := range out {
		s.SanitizePick(&out[i])
	}
	return out
}

// Helper methods for sanitization

func (s *Sanitizer) sanitizeString(str string) string {
	sanitized := controlChars.ReplaceAllString(strings.TrimSpace(str), "")
	return truncateRunes(sanitized, maxFieldRunes)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func (s *Sanitizer) sanitizeTeamName(name string) string {
	sanitized := controlChars.ReplaceAllString(name, " ")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(sanitized, " "))
}

func (s *Sanitizer) sanitizeSide(side models.Side) models.Side {
	switch strings.ToLower(strings.TrimSpace(string(side))) {
	case "home":
		return models.SideHome
	case "away":
		return models.SideAway
	}
	return side
}

func (s *Sanitizer) sanitizeBookmaker(bookmaker string) string {
	sanitized := strings.TrimSpace(bookmaker)

	// Map common variations to standard names
	bookmakerMap := map[string]string{
		"draftkings":     "DraftKings",
		"fanduel":        "FanDuel",
		"betmgm":         "BetMGM",
		"williamhill_us": "Caesars",
		"caesars":        "Caesars",
		"pointsbetus":    "PointsBet",
		"betrivers":      "BetRivers",
		"bovada":         "Bovada",
		"pinnacle":       "Pinnacle",
	}

	if standard, exists := bookmakerMap[strings.ToLower(sanitized)]; exists {
		return standard
	}
	return sanitized
}
