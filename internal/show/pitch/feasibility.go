package pitch

import "strings"

// Keyword pools for the deterministic feasibility heuristic. Concrete
// production terms raise the score, fantastical or high-complexity terms
// lower it, grounded relational themes raise it again.
var (
	concreteTerms = []string{
		"sitcom", "talk show", "interview", "panel", "quiz", "cooking",
		"recap", "studio", "segment", "review", "debate", "advice",
	}
	complexTerms = []string{
		"dragon", "wizard", "space battle", "time travel", "apocalypse",
		"zombie", "superhero", "explosion", "cgi", "epic",
	}
	groundedTerms = []string{
		"family", "roommate", "neighbor", "friend", "workplace", "office",
		"everyday", "romance", "relationship",
	}
)

// feasibilityScore rates how producible an idea is, on [0,100], from its
// text alone. Starts neutral at 50 and shifts per matched keyword.
func feasibilityScore(text string) int {
	t := strings.ToLower(text)
	score := 50
	for _, kw := range concreteTerms {
		if strings.Contains(t, kw) {
			score += 8
		}
	}
	for _, kw := range complexTerms {
		if strings.Contains(t, kw) {
			score -= 12
		}
	}
	for _, kw := range groundedTerms {
		if strings.Contains(t, kw) {
			score += 6
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
