package pitch

import "testing"

func TestFeasibilityScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "grounded sitcom idea",
			// sitcom +8, family +6, roommate +6 on top of the 50 base.
			text: "A family sitcom about two roommates",
			want: 70,
		},
		{
			name: "neutral text",
			text: "something about tuesdays",
			want: 50,
		},
		{
			name: "fantastical idea penalized",
			text: "an epic dragon apocalypse",
			want: 50 - 3*12,
		},
		{
			name: "clamped at zero",
			text: "epic cgi dragon wizard zombie superhero apocalypse with a space battle, time travel and an explosion",
			want: 0,
		},
		{
			name: "clamped at one hundred",
			text: "a cooking quiz panel talk show with interview and debate segments, advice for family, friends and roommates at the office",
			want: 100,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := feasibilityScore(tt.text); got != tt.want {
				t.Fatalf("feasibilityScore(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
