package analysis

// Hyper-scraper heuristics. A human cannot average more than 50 active
// trading days per calendar day of account age, and an account under a
// month old cannot have hundreds of days of history; either pattern points
// at a bot or a counter artifact.
const (
	maxDaysPerAgeDay    = 50
	youngAccountAgeDays = 30
	youngAccountMaxDays = 500
)

// IsHyperScraper flags wallets whose activity profile looks automated.
// A record with unknown or zero age is never flagged.
func IsHyperScraper(m Metrics) bool {
	if !m.AgeKnown || m.TraderAgeDays == 0 {
		return false
	}

	if m.TraderAgeDays > 0 {
		daysPerAgeDay := float64(m.TotalDays) / float64(m.TraderAgeDays)
		if daysPerAgeDay > maxDaysPerAgeDay {
			return true
		}
	}

	if m.TraderAgeDays < youngAccountAgeDays && m.TotalDays > youngAccountMaxDays {
		return true
	}

	return false
}
