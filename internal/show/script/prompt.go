package script

import (
	"fmt"
	"strings"

	"showrunner/internal/show/schedule"
)

// Labeled output sections the prompt asks for and the parser extracts.
const (
	sectionPacing  = "PACING"
	sectionStanceA = "STANCE_A"
	sectionStanceB = "STANCE_B"
	sectionScriptA = "SCRIPT_A"
	sectionScriptB = "SCRIPT_B"
)

// buildPrompt assembles the slow-path generation prompt: topic and angle,
// per-host stance contracts, uniqueness constraints from recent history and
// the exact output sections expected back.
func buildPrompt(brief schedule.Brief, a, b Speaker, avoid []string, question string) string {
	var sb strings.Builder
	sb.WriteString("You are writing the next segment of a continuous live two-host broadcast.\n\n")
	fmt.Fprintf(&sb, "SEGMENT: %s\n", brief.Kind)
	fmt.Fprintf(&sb, "TOPIC: %s\n", brief.Topic)
	fmt.Fprintf(&sb, "ANGLE: %s\n", brief.Angle)
	fmt.Fprintf(&sb, "TARGET PACING: %s\n", brief.DayPart.Pacing())
	if question != "" {
		fmt.Fprintf(&sb, "AUDIENCE QUESTION (must be answered on air): %s\n", question)
	}

	sb.WriteString("\nHOSTS:\n")
	writeSpeaker(&sb, "A", a)
	writeSpeaker(&sb, "B", b)

	if len(avoid) > 0 {
		sb.WriteString("\nDo not repeat any of these recent beats:\n")
		for _, fp := range avoid {
			fmt.Fprintf(&sb, "- %s\n", fp)
		}
	}

	sb.WriteString("\nAnswer using exactly these labeled sections, one per line, nothing else:\n")
	sb.WriteString(sectionPacing + ": one word for the delivery tempo\n")
	sb.WriteString(sectionStanceA + ": host A's position on the topic, one sentence\n")
	sb.WriteString(sectionStanceB + ": host B's position, one sentence, distinct from A's\n")
	sb.WriteString(sectionScriptA + ": host A's opening lines\n")
	sb.WriteString(sectionScriptB + ": host B's reply\n")
	return sb.String()
}

func writeSpeaker(sb *strings.Builder, label string, s Speaker) {
	fmt.Fprintf(sb, "Host %s is %s", label, s.Name)
	if s.Persona != "" {
		fmt.Fprintf(sb, " (%s)", s.Persona)
	}
	if s.StanceBias != "" {
		fmt.Fprintf(sb, ", leaning %s", s.StanceBias)
	}
	sb.WriteString(".\n")
}

// parseScript extracts the labeled sections from a collaborator response.
// Missing pacing and stances default from the brief; ok is false only when
// neither host got any lines, which callers treat as malformed.
func parseScript(raw string, brief schedule.Brief) (Script, bool) {
	sections := splitSections(raw)

	s := Script{
		Topic:   brief.Topic,
		Angle:   brief.Angle,
		Pacing:  sections[sectionPacing],
		StanceA: sections[sectionStanceA],
		StanceB: sections[sectionStanceB],
		LinesA:  sections[sectionScriptA],
		LinesB:  sections[sectionScriptB],
	}
	if s.Pacing == "" {
		s.Pacing = brief.DayPart.Pacing()
	}
	if s.StanceA == "" {
		s.StanceA = defaultStance(brief)
	}
	if s.StanceB == "" {
		s.StanceB = defaultStance(brief)
	}
	if s.LinesA == "" && s.LinesB == "" {
		return Script{}, false
	}
	if s.LinesA == "" {
		s.LinesA = fmt.Sprintf("Let's talk about %s.", brief.Topic)
	}
	if s.LinesB == "" {
		s.LinesB = fmt.Sprintf("I have thoughts on %s, believe me.", brief.Topic)
	}
	return s, true
}

func defaultStance(brief schedule.Brief) string {
	if a := strings.TrimSpace(brief.Angle); a != "" {
		return fmt.Sprintf("runs with %s", a)
	}
	return "keeps an open mind"
}

// splitSections walks the response line by line, starting a new section at
// every known "LABEL:" prefix and folding continuation lines into the
// current one.
func splitSections(raw string) map[string]string {
	known := []string{sectionPacing, sectionStanceA, sectionStanceB, sectionScriptA, sectionScriptB}

	out := make(map[string]string, len(known))
	var current string
	var buf []string

	flush := func() {
		if current == "" {
			return
		}
		out[current] = strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		matched := false
		for _, label := range known {
			rest, ok := strings.CutPrefix(trimmed, label+":")
			if !ok {
				continue
			}
			flush()
			current = label
			if rest = strings.TrimSpace(rest); rest != "" {
				buf = append(buf, rest)
			}
			matched = true
			break
		}
		if !matched && current != "" {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}
