package stats

import (
	"slices"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/temporal"
)

// BigTitleCategories are the categories counted as big titles.
var BigTitleCategories = append([]string{grandSlam, "Olympics", "Finals", "Tour Finals"}, MastersCategories...)

func IsBigTitle(category string) bool {
	return slices.Contains(BigTitleCategories, category)
}

// CountryTitles counts big titles per country. The winners' countries are
// resolved at the event date; a doubles title won by two players of the same
// country counts once for it.
func CountryTitles(wins []models.TitleWin, r *temporal.Resolver) (map[string]int, []models.Anomaly) {
	counts := make(map[string]int)
	var anomalies []models.Anomaly
	for _, w := range wins {
		if !IsBigTitle(w.Category) {
			continue
		}
		seen := make(map[string]bool, len(w.PlayerIDs))
		for _, p := range w.PlayerIDs {
			c, a := r.Country(p, w.At)
			if a != nil {
				anomalies = append(anomalies, *a)
			}
			if c == nil || seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			counts[c.ID]++
		}
	}
	return counts, anomalies
}
