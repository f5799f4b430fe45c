// ABOUTME: Classification-to-position conversion for legacy mappings
// ABOUTME: Every position sharing the ECO code gets an independently scored relationship
package integrate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// Score recomputation constants: a base offset plus linear scaling over the
// title/name token overlap, capped at 1.0. The numeric output is an opaque
// rank weight, so the heuristic is deliberately simple and explainable.
const (
	scoreBase  = 0.3
	scoreScale = 0.7
)

// ConvertEcoToFenMappings resolves each coarse ECO mapping to every store
// position sharing that classification and recomputes a match score per
// (video, position) pair. Recomputation failures fall back to the legacy
// score instead of dropping the relationship.
func (i *Integrator) ConvertEcoToFenMappings(mappings []models.EcoMapping, videosByID map[string]models.Video) ([]models.Relationship, models.ErrorList) {
	var (
		rels []models.Relationship
		errs models.ErrorList
	)

	for _, m := range mappings {
		openings, err := i.gw.OpeningsByClassification(m.Eco)
		if err != nil {
			errs.Add(models.ErrorTransient, m.Eco, err.Error())
			continue
		}
		if len(openings) == 0 {
			errs.Add(models.ErrorValidation, m.Eco,
				fmt.Sprintf("no openings share classification %s; mapping for %s dropped", m.Eco, m.VideoID))
			continue
		}

		video, haveVideo := videosByID[m.VideoID]
		for _, opening := range openings {
			score := m.MatchScore
			if haveVideo {
				if recomputed, err := matchScore(video.Title, opening.Name); err == nil {
					score = recomputed
				}
			}
			rels = append(rels, models.Relationship{
				OpeningFEN: opening.FEN,
				VideoID:    m.VideoID,
				MatchScore: score,
			})
		}
	}

	i.logger.Info("converted eco mappings",
		zap.Int("mappings", len(mappings)),
		zap.Int("relationships", len(rels)),
		zap.Int("errors", len(errs)))
	return rels, errs
}

// matchScore measures token overlap between a video title and an opening
// name. Returns an error when either side tokenizes to nothing, in which
// case the caller keeps the legacy score.
func matchScore(title, openingName string) (float64, error) {
	titleTokens := tokenize(title)
	nameTokens := tokenize(openingName)
	if len(titleTokens) == 0 || len(nameTokens) == 0 {
		return 0, fmt.Errorf("cannot score empty title or opening name")
	}

	inTitle := make(map[string]bool, len(titleTokens))
	for _, tok := range titleTokens {
		inTitle[tok] = true
	}

	matched := 0
	for _, tok := range nameTokens {
		if inTitle[tok] {
			matched++
		}
	}

	overlap := float64(matched) / float64(len(nameTokens))
	score := scoreBase + scoreScale*overlap
	if score > 1.0 {
		score = 1.0
	}
	return score, nil
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,:;!?'\"()-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
