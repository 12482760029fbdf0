package validation

import "slices"

// Team checks one head-to-head team: one or two distinct player ids.
func Team(vs *Violations, field string, team []string) {
	switch {
	case len(team) == 0:
		vs.Add(field, "must contain at least one player")
		return
	case len(team) > 2:
		vs.Add(field, "must contain at most two players")
		return
	}
	for i, id := range team {
		if id == "" {
			vs.Add(field, "player %d has an empty id", i+1)
		}
	}
	if len(team) == 2 && team[0] == team[1] {
		vs.Add(field, "must not repeat a player")
	}
}

// Teams checks both teams and that they can meet: equal size, no shared player.
func Teams(team1, team2 []string) error {
	var vs Violations
	Team(&vs, "team1", team1)
	Team(&vs, "team2", team2)
	if len(vs) > 0 {
		return vs.Err()
	}
	vs.Check(len(team1) == len(team2), "team2", "must have as many players as team1")
	for _, id := range team2 {
		if slices.Contains(team1, id) {
			vs.Add("team2", "player %s is also in team1", id)
		}
	}
	return vs.Err()
}
