package matching

import (
	"testing"

	"github.com/google/uuid"
)

func testEngine() *Engine {
	return NewEngine(DefaultBucketTable())
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestMatch_EmptyCandidateListReturnsNoMatch(t *testing.T) {
	engine := testEngine()
	profile := engine.ResolveProfile("250k_500k", "45_60", "CA", []string{"retirement planning"})

	_, ok := engine.Match(profile, nil)
	if ok {
		t.Fatal("expected no match for empty candidate list")
	}
	_, ok = engine.Match(profile, []Candidate{})
	if ok {
		t.Fatal("expected no match for zero-length candidate list")
	}
}

func TestMatch_IsDeterministic(t *testing.T) {
	engine := testEngine()
	profile := engine.ResolveProfile("100k_250k", "30_44", "TX", []string{"tax optimization", "estate planning"})

	candidates := []Candidate{
		{ID: uuid.New(), MinAssets: int64Ptr(50_000), TargetStates: []string{"TX"}, HasLogo: true},
		{ID: uuid.New(), TargetGoals: []string{"tax optimization"}, LeadsAssigned: 3},
		{ID: uuid.New(), MinAge: intPtr(30), MaxAge: intPtr(50), HasBio: true},
	}

	first, ok := engine.Match(profile, candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		again, ok := engine.Match(profile, candidates)
		if !ok {
			t.Fatalf("run %d: expected a match", i)
		}
		if again.Candidate.ID != first.Candidate.ID || again.Total != first.Total {
			t.Fatalf("run %d: expected %s with %d, got %s with %d",
				i, first.Candidate.ID, first.Total, again.Candidate.ID, again.Total)
		}
	}
}

func TestMatch_TieBreaksOnInputOrder(t *testing.T) {
	engine := testEngine()
	profile := engine.ResolveProfile("under_100k", "under_30", "NY", nil)

	first := Candidate{ID: uuid.New()}
	second := Candidate{ID: uuid.New()}

	best, ok := engine.Match(profile, []Candidate{first, second})
	if !ok {
		t.Fatal("expected a match")
	}
	if best.Candidate.ID != first.ID {
		t.Fatalf("expected tie to keep first candidate %s, got %s", first.ID, best.Candidate.ID)
	}
}

func TestScoreCandidate_GoalOverlapAddsFivePerGoal(t *testing.T) {
	engine := testEngine()
	candidate := Candidate{
		ID:          uuid.New(),
		TargetGoals: []string{"retirement planning", "tax optimization"},
	}

	base := engine.ScoreCandidate(Profile{Assets: 100_000, Age: 40, State: "CA", Goals: []string{"retirement planning"}}, candidate)
	more := engine.ScoreCandidate(Profile{Assets: 100_000, Age: 40, State: "CA", Goals: []string{"retirement planning", "tax optimization"}}, candidate)

	if more.Total-base.Total != 5 {
		t.Fatalf("expected one extra overlapping goal to add exactly 5, got %d", more.Total-base.Total)
	}
	if base.Factors["goals"] != 5 {
		t.Fatalf("expected goals factor 5 for one overlap, got %d", base.Factors["goals"])
	}
	if more.Factors["goals"] != 10 {
		t.Fatalf("expected goals factor 10 for two overlaps, got %d", more.Factors["goals"])
	}
}

func TestScoreCandidate_LoadPenaltyCapsAtTwenty(t *testing.T) {
	engine := testEngine()
	profile := Profile{Assets: 100_000, Age: 40, State: "CA"}

	atCap := engine.ScoreCandidate(profile, Candidate{ID: uuid.New(), LeadsAssigned: 20})
	overCap := engine.ScoreCandidate(profile, Candidate{ID: uuid.New(), LeadsAssigned: 75})

	if atCap.Factors["load"] != -20 {
		t.Fatalf("expected load penalty -20 at cap, got %d", atCap.Factors["load"])
	}
	if overCap.Factors["load"] != atCap.Factors["load"] {
		t.Fatalf("expected identical penalty at and above cap, got %d and %d",
			atCap.Factors["load"], overCap.Factors["load"])
	}

	underCap := engine.ScoreCandidate(profile, Candidate{ID: uuid.New(), LeadsAssigned: 19})
	if underCap.Factors["load"] != -19 {
		t.Fatalf("expected load penalty -19 below cap, got %d", underCap.Factors["load"])
	}
}

func TestScoreCandidate_BrandingPoints(t *testing.T) {
	engine := testEngine()
	profile := Profile{Assets: 100_000, Age: 40, State: "CA"}

	bare := engine.ScoreCandidate(profile, Candidate{ID: uuid.New()})
	full := engine.ScoreCandidate(profile, Candidate{ID: uuid.New(), HasLogo: true, HasPhoto: true, HasBio: true})

	if bare.Factors["branding"] != 0 {
		t.Fatalf("expected 0 branding points without assets, got %d", bare.Factors["branding"])
	}
	if full.Factors["branding"] != 13 {
		t.Fatalf("expected 13 branding points with logo, photo and bio, got %d", full.Factors["branding"])
	}
}

func TestScoreCandidate_AssetBounds(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name      string
		assets    int64
		candidate Candidate
		want      int
	}{
		{"in range", 375_000, Candidate{MinAssets: int64Ptr(100_000), MaxAssets: int64Ptr(500_000)}, 30},
		{"below min", 50_000, Candidate{MinAssets: int64Ptr(100_000)}, 0},
		{"above max", 750_000, Candidate{MaxAssets: int64Ptr(500_000)}, 0},
		{"no bounds declared", 50_000, Candidate{}, 15},
		{"min only, satisfied", 750_000, Candidate{MinAssets: int64Ptr(100_000)}, 30},
	}

	for _, tc := range tests {
		score := engine.ScoreCandidate(Profile{Assets: tc.assets, Age: 40, State: "CA"}, tc.candidate)
		if score.Factors["assets"] != tc.want {
			t.Fatalf("%s: expected assets factor %d, got %d", tc.name, tc.want, score.Factors["assets"])
		}
	}
}

func TestScoreCandidate_AgeBounds(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name      string
		age       int
		candidate Candidate
		want      int
	}{
		{"in range", 52, Candidate{MinAge: intPtr(45), MaxAge: intPtr(60)}, 20},
		{"too young", 25, Candidate{MinAge: intPtr(45)}, 0},
		{"too old", 67, Candidate{MaxAge: intPtr(60)}, 0},
		{"no bounds declared", 25, Candidate{}, 10},
	}

	for _, tc := range tests {
		score := engine.ScoreCandidate(Profile{Assets: 100_000, Age: tc.age, State: "CA"}, tc.candidate)
		if score.Factors["age"] != tc.want {
			t.Fatalf("%s: expected age factor %d, got %d", tc.name, tc.want, score.Factors["age"])
		}
	}
}

func TestScoreCandidate_StateTargeting(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name      string
		candidate Candidate
		want      int
	}{
		{"state hit", Candidate{TargetStates: []string{"NY", "CA"}}, 25},
		{"state miss", Candidate{TargetStates: []string{"NY", "TX"}}, 0},
		{"no states declared", Candidate{}, 12},
	}

	for _, tc := range tests {
		score := engine.ScoreCandidate(Profile{Assets: 100_000, Age: 40, State: "CA"}, tc.candidate)
		if score.Factors["state"] != tc.want {
			t.Fatalf("%s: expected state factor %d, got %d", tc.name, tc.want, score.Factors["state"])
		}
	}
}

// A targeted, fully branded advisor with zero load must beat an unrestricted
// advisor carrying load, for a lead squarely inside the first advisor's
// targeting.
func TestMatch_TargetedAdvisorBeatsUnrestrictedLoadedAdvisor(t *testing.T) {
	engine := testEngine()

	advisorA := Candidate{
		ID:           uuid.New(),
		MinAssets:    int64Ptr(100_000),
		MaxAssets:    int64Ptr(500_000),
		TargetStates: []string{"CA"},
		TargetGoals:  []string{"retirement planning"},
		HasLogo:      true,
		HasPhoto:     true,
		HasBio:       true,
	}
	advisorB := Candidate{
		ID:            uuid.New(),
		LeadsAssigned: 5,
	}

	profile := engine.ResolveProfile("250k_500k", "45_60", "CA", []string{"retirement planning"})
	if profile.Assets != 375_000 {
		t.Fatalf("expected portfolio bucket to resolve to 375000, got %d", profile.Assets)
	}

	scoreA := engine.ScoreCandidate(profile, advisorA)
	scoreB := engine.ScoreCandidate(profile, advisorB)

	// A: 30 assets + 10 age neutral + 25 state + 5 goals + 13 branding = 83.
	if scoreA.Total != 83 {
		t.Fatalf("expected advisor A total 83, got %d (%v)", scoreA.Total, scoreA.Factors)
	}
	// B: 15 assets neutral + 10 age neutral + 12 state neutral + 10 goals neutral - 5 load = 42.
	if scoreB.Total != 42 {
		t.Fatalf("expected advisor B total 42, got %d (%v)", scoreB.Total, scoreB.Factors)
	}

	best, ok := engine.Match(profile, []Candidate{advisorB, advisorA})
	if !ok {
		t.Fatal("expected a match")
	}
	if best.Candidate.ID != advisorA.ID {
		t.Fatalf("expected advisor A to win, got %s", best.Candidate.ID)
	}
}
