package domain

// LeaderboardSize caps every ranked listing.
const LeaderboardSize = 10

type RankedCountry struct {
	Country   string `json:"country"`
	Capital   string `json:"capital"`
	Region    string `json:"region"`
	SubRegion string `json:"subRegion"`
	Votes     int64  `json:"votes"`
	Rank      int    `json:"rank"`
}

// Rank annotates countries, already ordered by votes descending, with their
// 1-based position. Equal tallies still receive consecutive ranks.
func Rank(countries []*Country) []RankedCountry {
	ranked := make([]RankedCountry, 0, len(countries))
	for i, c := range countries {
		ranked = append(ranked, RankedCountry{
			Country:   c.Name,
			Capital:   c.Capital,
			Region:    c.Region,
			SubRegion: c.SubRegion,
			Votes:     c.Votes,
			Rank:      i + 1,
		})
	}
	return ranked
}
