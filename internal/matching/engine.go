// Package matching scores active advisors against a lead profile and selects
// the best candidate. The engine is pure: given the same candidates in the
// same order and the same profile, it always returns the same advisor.
package matching

import (
	"github.com/google/uuid"
)

// Weights for each scoring criterion. Kept as named data rather than inline
// arithmetic so they can be tuned and tested independently of control flow.
const (
	weightAssetsInRange = 30
	weightAssetsNeutral = 15 // advisor declares no asset bounds

	weightAgeInRange = 20
	weightAgeNeutral = 10 // advisor declares no age bounds

	weightStateHit     = 25
	weightStateNeutral = 12 // advisor declares no state restriction

	weightPerGoalOverlap = 5  // per overlapping goal, uncapped
	weightGoalsNeutral   = 10 // either side declares no goals

	weightHasLogo  = 5
	weightHasPhoto = 5
	weightHasBio   = 3

	loadPenaltyCap = 20

	defaultMaxAge = 100
)

// Candidate is the advisor view the engine scores. It carries targeting
// criteria, profile-completeness signals, and the current load counter.
type Candidate struct {
	ID            uuid.UUID
	MinAssets     *int64
	MaxAssets     *int64
	MinAge        *int
	MaxAge        *int
	TargetStates  []string
	TargetGoals   []string
	HasLogo       bool
	HasPhoto      bool
	HasBio        bool
	LeadsAssigned int
}

// Profile is the numeric lead profile after bucket resolution.
type Profile struct {
	Assets int64
	Age    int
	State  string
	Goals  []string
}

// Score holds a single candidate's total with a per-rule breakdown.
// It is ephemeral: produced for ranking and discarded after selection.
type Score struct {
	Candidate Candidate
	Total     int
	Factors   map[string]int
}

// rule is a named scoring criterion. Rules are independent and additive.
type rule struct {
	name  string
	score func(p Profile, c Candidate) int
}

// scoringRules is the ordered table of criteria applied to every candidate.
var scoringRules = []rule{
	{"assets", scoreAssets},
	{"age", scoreAge},
	{"state", scoreState},
	{"goals", scoreGoals},
	{"branding", scoreBranding},
	{"load", scoreLoad},
}

// Engine scores candidates against lead profiles.
type Engine struct {
	buckets BucketTable
}

// NewEngine creates a matching engine with the given bucket table.
func NewEngine(buckets BucketTable) *Engine {
	return &Engine{buckets: buckets}
}

// Buckets returns the engine's bucket table.
func (e *Engine) Buckets() BucketTable {
	return e.buckets
}

// ResolveProfile maps categorical intake answers to a numeric profile.
func (e *Engine) ResolveProfile(portfolioBucket, ageBucket, state string, goals []string) Profile {
	return Profile{
		Assets: e.buckets.ResolvePortfolio(portfolioBucket),
		Age:    e.buckets.ResolveAge(ageBucket),
		State:  state,
		Goals:  goals,
	}
}

// ScoreCandidate computes the total score for one candidate with a factor breakdown.
func (e *Engine) ScoreCandidate(p Profile, c Candidate) Score {
	result := Score{Candidate: c, Factors: make(map[string]int, len(scoringRules))}
	for _, r := range scoringRules {
		points := r.score(p, c)
		result.Factors[r.name] = points
		result.Total += points
	}
	return result
}

// Match scores every candidate and returns the best one. Ties are broken by
// input order, so callers must list candidates deterministically. An empty
// candidate list yields ok=false: no match is a business outcome, not an error.
func (e *Engine) Match(p Profile, candidates []Candidate) (Score, bool) {
	var best Score
	found := false
	for _, c := range candidates {
		scored := e.ScoreCandidate(p, c)
		if !found || scored.Total > best.Total {
			best = scored
			found = true
		}
	}
	return best, found
}

func scoreAssets(p Profile, c Candidate) int {
	if c.MinAssets == nil && c.MaxAssets == nil {
		return weightAssetsNeutral
	}
	min := int64(0)
	if c.MinAssets != nil {
		min = *c.MinAssets
	}
	if p.Assets < min {
		return 0
	}
	if c.MaxAssets != nil && p.Assets > *c.MaxAssets {
		return 0
	}
	return weightAssetsInRange
}

func scoreAge(p Profile, c Candidate) int {
	if c.MinAge == nil && c.MaxAge == nil {
		return weightAgeNeutral
	}
	min := 0
	if c.MinAge != nil {
		min = *c.MinAge
	}
	max := defaultMaxAge
	if c.MaxAge != nil {
		max = *c.MaxAge
	}
	if p.Age < min || p.Age > max {
		return 0
	}
	return weightAgeInRange
}

func scoreState(p Profile, c Candidate) int {
	if len(c.TargetStates) == 0 {
		return weightStateNeutral
	}
	for _, state := range c.TargetStates {
		if state == p.State {
			return weightStateHit
		}
	}
	return 0
}

func scoreGoals(p Profile, c Candidate) int {
	if len(p.Goals) == 0 || len(c.TargetGoals) == 0 {
		return weightGoalsNeutral
	}
	targets := make(map[string]bool, len(c.TargetGoals))
	for _, goal := range c.TargetGoals {
		targets[goal] = true
	}
	overlap := 0
	for _, goal := range p.Goals {
		if targets[goal] {
			overlap++
		}
	}
	return overlap * weightPerGoalOverlap
}

func scoreBranding(_ Profile, c Candidate) int {
	points := 0
	if c.HasLogo {
		points += weightHasLogo
	}
	if c.HasPhoto {
		points += weightHasPhoto
	}
	if c.HasBio {
		points += weightHasBio
	}
	return points
}

func scoreLoad(_ Profile, c Candidate) int {
	penalty := c.LeadsAssigned
	if penalty > loadPenaltyCap {
		penalty = loadPenaltyCap
	}
	if penalty < 0 {
		penalty = 0
	}
	return -penalty
}
