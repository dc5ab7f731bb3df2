package script

import (
	"fmt"
	"strings"

	"showrunner/internal/show/schedule"
)

type template struct {
	pacing  string
	stanceA string
	stanceB string
	lineA   string
	lineB   string
}

// fastPathTemplates answers known topic headlines without a collaborator
// call. Keys are normalized topic text. The filler pool is covered in full
// so filler segments never cost a generation call.
var fastPathTemplates = map[string]template{
	"a minute of calming studio ambience": {
		pacing:  "mellow",
		stanceA: "leans into the quiet",
		stanceB: "pretends the silence is suspicious",
		lineA:   "Let's take a breath together. Just the hum of the studio for a moment.",
		lineB:   "It's never actually quiet in here. Listen closely and you can hear the vending machine plotting.",
	},
	"rapid-fire listener shout-outs": {
		pacing:  "punchy",
		stanceA: "reads names with game-show energy",
		stanceB: "adds one-word verdicts after each name",
		lineA:   "Shout-out time! You know the rules: I read, you react, nobody breathes.",
		lineB:   "Ready. My verdicts are legally non-binding.",
	},
	"the hosts rank their favorite chairs": {
		pacing:  "steady",
		stanceA: "defends the old green chair on principle",
		stanceB: "argues ergonomics beat sentiment",
		lineA:   "Top of my list, as always, the green chair. It has history. It has character.",
		lineB:   "It has a broken caster and you know it. Lumbar support is not a betrayal of history.",
	},
	"an improvised jingle": {
		pacing:  "bright",
		stanceA: "commits to the bit completely",
		stanceB: "provides reluctant backing vocals",
		lineA:   "One, two, three, four. This is the show you can't ignore.",
		lineB:   "I want it on record that I was not consulted about this key.",
	},
	"behind-the-scenes trivia": {
		pacing:  "mellow",
		stanceA: "shares the trivia like a secret",
		stanceB: "fact-checks it live, skeptically",
		lineA:   "Between us, the studio clock has been four minutes fast since the day we moved in.",
		lineB:   "Allegedly. I have seen no evidence and the clock declined to comment.",
	},
	"weather on the studio roof": {
		pacing:  "bright",
		stanceA: "delivers the forecast like breaking news",
		stanceB: "notes the roof has no instruments",
		lineA:   "Conditions on the roof: dramatic, with a chance of pigeons.",
		lineB:   "Our entire meteorology department is a wet finger held out a window.",
	},
}

func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}

// lookupTemplate resolves the fast path. Any filler segment is eligible even
// when its topic has no dedicated entry.
func lookupTemplate(brief schedule.Brief) (Script, bool) {
	t, ok := fastPathTemplates[normalizeTopic(brief.Topic)]
	if !ok {
		if brief.Kind != schedule.KindFiller {
			return Script{}, false
		}
		t = genericFillerTemplate(brief)
	}
	return Script{
		Topic:    brief.Topic,
		Angle:    brief.Angle,
		Pacing:   t.pacing,
		StanceA:  t.stanceA,
		StanceB:  t.stanceB,
		LinesA:   t.lineA,
		LinesB:   t.lineB,
		FastPath: true,
	}, true
}

func genericFillerTemplate(brief schedule.Brief) template {
	return template{
		pacing:  brief.DayPart.Pacing(),
		stanceA: "keeps it light",
		stanceB: "plays along",
		lineA:   fmt.Sprintf("While we queue up the next story: %s.", brief.Topic),
		lineB:   fmt.Sprintf("Going with %s, are we. Bold choice. I'm in.", brief.Angle),
	}
}

// fallbackScript is the deterministic last resort after generation has
// failed and the retry is spent. Both hosts get a neutral stance built from
// the angle hints.
func fallbackScript(brief schedule.Brief) Script {
	angle := strings.TrimSpace(brief.Angle)
	if angle == "" {
		angle = "a straight read"
	}
	return Script{
		Topic:    brief.Topic,
		Angle:    brief.Angle,
		Pacing:   brief.DayPart.Pacing(),
		StanceA:  fmt.Sprintf("takes %s at face value", angle),
		StanceB:  fmt.Sprintf("takes %s at face value", angle),
		LinesA:   fmt.Sprintf("Here's what we're looking at: %s. Let's take it as %s.", brief.Topic, angle),
		LinesB:   fmt.Sprintf("Fair enough. I'll follow your lead on %s.", brief.Topic),
		Fallback: true,
	}
}
