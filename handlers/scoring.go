// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"math"
	"time"

	"github.com/NH-SK-U22/SKproject/models"
)

// Camp scoring is asymmetric on purpose: a vote that crosses camp lines
// concedes a point to the opposing side and is worth more than praise from
// an ally, while a C vote always costs the target a point regardless of
// who cast it.
//
//	              same camp   cross camp
//	tier A           +2          +6
//	tier B           +1          +3
//	tier C           -1          -1
func tierDelta(sameCamp bool, tier string) int {
	switch tier {
	case models.TierA:
		if sameCamp {
			return 2
		}
		return 6
	case models.TierB:
		if sameCamp {
			return 1
		}
		return 3
	case models.TierC:
		return -1
	}
	return 0
}

// voteSnapshot is one scoreable ledger row: the frozen camp of the sticky's
// author (the target of the vote) and the frozen camp of the voter.
type voteSnapshot struct {
	TargetCampID string
	VoterCampID  string
	Tier         string
}

// campResolver normalizes the camp references stored on historical rows.
// Old rows carry the logical references "1"/"2" instead of a camp_id, and
// rows written after a camp was deleted may reference nothing at all.
type campResolver struct {
	known map[string]string
}

// newCampResolver builds a resolver from the theme's camps in camp_id
// order. Position in that ordering defines which camp the logical "1" and
// "2" references mean.
func newCampResolver(camps []models.Camp) campResolver {
	known := make(map[string]string, len(camps)+2)
	for i, c := range camps {
		known[c.ID] = c.ID
		switch i {
		case 0:
			known[models.LogicalCamp1] = c.ID
		case 1:
			known[models.LogicalCamp2] = c.ID
		}
	}
	return campResolver{known: known}
}

// resolve maps a stored camp reference to a real camp_id. ok is false for
// empty or unresolvable references; those rows are skipped, not errors.
func (r campResolver) resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	id, ok := r.known[ref]
	return id, ok
}

// scoreVotes folds the vote ledger into per-camp totals. Every camp of the
// theme appears in the result even with zero scoreable votes. The fold is
// pure and order-independent, so recomputing over the same ledger always
// yields the same standings.
func scoreVotes(camps []models.Camp, votes []voteSnapshot) []models.CampScore {
	resolver := newCampResolver(camps)

	totals := make(map[string]int, len(camps))
	for _, c := range camps {
		totals[c.ID] = 0
	}

	for _, v := range votes {
		target, ok := resolver.resolve(v.TargetCampID)
		if !ok {
			continue
		}
		voter, ok := resolver.resolve(v.VoterCampID)
		if !ok {
			continue
		}
		totals[target] += tierDelta(target == voter, v.Tier)
	}

	scores := make([]models.CampScore, 0, len(camps))
	var absTotal float64
	for _, c := range camps {
		score := totals[c.ID]
		scores = append(scores, models.CampScore{
			CampID:   c.ID,
			CampName: c.CampName,
			Score:    score,
		})
		absTotal += math.Abs(float64(score))
	}

	for i := range scores {
		if absTotal == 0 {
			scores[i].Percent = 100.0 / float64(len(scores))
		} else {
			scores[i].Percent = math.Abs(float64(scores[i].Score)) / absTotal * 100.0
		}
	}
	return scores
}

// themeCamps returns a theme's camps ordered by camp_id. The ordering is
// load-bearing: it fixes the positional meaning of logical camp references
// and of the camp1/camp2 slots on the theme row.
func themeCamps(q querier, themeID string) ([]models.Camp, error) {
	rows, err := q.Query(`
		SELECT camp_id, theme_id, camp_name, is_winner
		FROM camps WHERE theme_id = $1 ORDER BY camp_id
	`, themeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var camps []models.Camp
	for rows.Next() {
		var c models.Camp
		if err := rows.Scan(&c.ID, &c.ThemeID, &c.CampName, &c.IsWinner); err != nil {
			return nil, err
		}
		camps = append(camps, c)
	}
	return camps, rows.Err()
}

// collectVotes snapshots the scoreable ledger rows for a theme: votes on
// stickies posted in the theme's school during its voting window.
func collectVotes(q querier, schoolID string, start, end time.Time) ([]voteSnapshot, error) {
	rows, err := q.Query(`
		SELECT s.author_camp_id, v.voter_camp_id, v.vote_type
		FROM sticky_votes v
		JOIN sticky s ON v.sticky_id = s.sticky_id
		JOIN students st ON s.student_id = st.student_id
		WHERE st.school_id = $1 AND s.created_at >= $2 AND s.created_at < $3
	`, schoolID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []voteSnapshot
	for rows.Next() {
		var v voteSnapshot
		if err := rows.Scan(&v.TargetCampID, &v.VoterCampID, &v.Tier); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// ComputeCampScores recomputes a theme's standings from the full vote
// ledger. Both the camps and the votes are read inside one transaction so
// the fold sees a consistent snapshot.
func ComputeCampScores(db *sql.DB, themeID string) ([]models.CampScore, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var schoolID string
	var start, end time.Time
	err = tx.QueryRow(`
		SELECT school_id, start_date, end_date FROM debate_themes WHERE theme_id = $1
	`, themeID).Scan(&schoolID, &start, &end)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	camps, err := themeCamps(tx, themeID)
	if err != nil {
		return nil, err
	}

	votes, err := collectVotes(tx, schoolID, start, end)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return scoreVotes(camps, votes), nil
}
