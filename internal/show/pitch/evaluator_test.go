package pitch

import (
	"context"
	"testing"
	"time"

	"showrunner/internal/gen"
	"showrunner/internal/storage"
	logx "showrunner/pkg/logx"
)

func testSubmission(submitter, text string) *Submission {
	return newSubmission(submitter, text, time.Now())
}

func TestScoreWeightedSum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reputation   int
		creativity   string
		market       string
		feasibility  int
		engagement   int
		wantScore    int
		wantApproved bool
	}{
		{
			name:       "middling idea rejected",
			reputation: 80, creativity: "60", market: "70",
			feasibility: 60, engagement: 80,
			wantScore: 68, wantApproved: false,
		},
		{
			name:       "strong idea approved",
			reputation: 90, creativity: "90", market: "95",
			feasibility: 70, engagement: 90,
			wantScore: 86, wantApproved: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := storage.NewMemory()
			if err := store.SetReputation(context.Background(), "mira", tt.reputation); err != nil {
				t.Fatal(err)
			}
			client := gen.NewScripted(tt.creativity, tt.market)

			e := NewEvaluator(EvaluatorConfig{}, client, store, StaticEngagement(tt.engagement), logx.Nop())
			e.feasibility = func(string) int { return tt.feasibility }

			d := e.Score(context.Background(), testSubmission("mira", "a family sitcom about two roommates"))
			if d.Score != tt.wantScore {
				t.Fatalf("Score = %d (factors %+v), want %d", d.Score, d.Factors, tt.wantScore)
			}
			if d.Approved != tt.wantApproved {
				t.Fatalf("Approved = %v, want %v", d.Approved, tt.wantApproved)
			}
			if d.Fallback {
				t.Fatal("Fallback set on a normal decision")
			}
			if client.Calls() != 2 {
				t.Fatalf("collaborator calls = %d, want 2", client.Calls())
			}
		})
	}
}

func TestScoreCollaboratorDownUsesBaselines(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted()
	client.SetDown(true)

	e := NewEvaluator(EvaluatorConfig{}, client, nil, nil, logx.Nop())
	e.feasibility = func(string) int { return 50 }

	d := e.Score(context.Background(), testSubmission("jo", "a quiz"))
	// All rated factors degrade to 50; engagement keeps its neutral-high baseline.
	want := Factors{Reputation: 50, Creativity: 50, Feasibility: 50, Market: 50, Engagement: baselineEngagement}
	if d.Factors != want {
		t.Fatalf("Factors = %+v, want %+v", d.Factors, want)
	}
	if client.Calls() != 0 {
		t.Fatalf("collaborator calls = %d, want 0 while down", client.Calls())
	}
	if d.Approved {
		t.Fatal("baseline-only score must not clear the approval bar")
	}
}

func TestScoreNonNumericRatingUsesBaseline(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted("sounds great, love it", "150")

	e := NewEvaluator(EvaluatorConfig{}, client, nil, StaticEngagement(70), logx.Nop())
	e.feasibility = func(string) int { return 50 }

	d := e.Score(context.Background(), testSubmission("jo", "a quiz"))
	if d.Factors.Creativity != neutralSubScore {
		t.Fatalf("Creativity = %d, want %d for non-numeric reply", d.Factors.Creativity, neutralSubScore)
	}
	if d.Factors.Market != neutralSubScore {
		t.Fatalf("Market = %d, want %d for out-of-range reply", d.Factors.Market, neutralSubScore)
	}
}

type panicEngagement struct{}

func (panicEngagement) CurrentEngagement() int { panic("telemetry feed wedged") }

func TestScoreFailureAutoApproves(t *testing.T) {
	t.Parallel()
	e := NewEvaluator(EvaluatorConfig{}, gen.NewScripted("60", "60"), nil, panicEngagement{}, logx.Nop())

	d := e.Score(context.Background(), testSubmission("jo", "a quiz"))
	if !d.Approved || !d.Fallback {
		t.Fatalf("decision = %+v, want auto-approval with fallback flag", d)
	}
	if d.Reason == "" {
		t.Fatal("fallback decision must carry a reason")
	}
}

func TestParseRating(t *testing.T) {
	t.Parallel()
	tests := []struct {
		reply  string
		want   int
		wantOK bool
	}{
		{"60", 60, true},
		{"I'd say 72, maybe higher", 72, true},
		{"rating: 100", 100, true},
		{"zero", 0, false},
		{"0", 0, false},
		{"150", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseRating(tt.reply)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("parseRating(%q) = %d, %v; want %d, %v", tt.reply, got, ok, tt.want, tt.wantOK)
		}
	}
}
