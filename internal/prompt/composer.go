package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Tone selects the coaching style of the generated story, from gentle to
// confrontational. Closed set; anything else is rejected.
type Tone string

const (
	ToneLow    Tone = "low"
	ToneMedium Tone = "medium"
	ToneHarsh  Tone = "harsh"
	ToneBrutal Tone = "brutal"
)

var ErrInvalidTone = errors.New("invalid tone")

const maxWords = 350

// toneProfile holds the per-tone wording. The four tones share one
// template; only the descriptors differ, so they live in data rather
// than four parallel code branches.
type toneProfile struct {
	persona   string
	stance    string
	verdict   string
	gapsStyle string
}

var toneProfiles = map[Tone]toneProfile{
	ToneLow: {
		persona:   "a supportive career coach",
		stance:    "Be warm and encouraging. Lead with what went well before pointing at weaknesses.",
		verdict:   "Frame shortfalls as opportunities, never as failures.",
		gapsStyle: "Mention at most two gaps, gently.",
	},
	ToneMedium: {
		persona:   "a candid career coach",
		stance:    "Be balanced and direct. Give praise only where the evidence supports it.",
		verdict:   "Name shortfalls plainly, without softening or exaggeration.",
		gapsStyle: "List every meaningful gap you can substantiate.",
	},
	ToneHarsh: {
		persona:   "a demanding performance reviewer",
		stance:    "Be blunt. Skip pleasantries; praise only exceptional results.",
		verdict:   "Call out every shortfall and missed commitment explicitly.",
		gapsStyle: "Lead with the gaps. Quantify the shortfall wherever possible.",
	},
	ToneBrutal: {
		persona:   "a ruthless no-excuses mentor",
		stance:    "Be confrontational. Challenge every claim of progress and assume excuses until disproven.",
		verdict:   "Treat any goal without matching evidence as a failure and say so.",
		gapsStyle: "Dissect every gap and state its likely consequence if nothing changes.",
	},
}

// Section headings. The goal-vs-reality section is swapped for an
// activity-highlights section when the user has no active goals.
var (
	sectionsWithGoals    = []string{"Analysis Basis", "Goals vs Reality", "Gaps", "Next Actions"}
	sectionsWithoutGoals = []string{"Analysis Basis", "Activity Highlights", "Gaps", "Next Actions"}
)

// Context carries the aggregated, already-sanitized text blocks.
type Context struct {
	Profile string
	Goals   string
	Posts   string
}

// Prompt is a rendered generation request: one system instruction
// document and one user turn.
type Prompt struct {
	System string
	User   string
}

// ParseTone validates a raw tone selector (case-insensitive, trimmed).
func ParseTone(raw string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := toneProfiles[t]; !ok {
		return "", ErrInvalidTone
	}
	return t, nil
}

// Compose renders the full generation request for a tone and context.
// Pure function: same inputs always produce the same prompt text.
func Compose(tone Tone, c Context) (Prompt, error) {
	profile, ok := toneProfiles[tone]
	if !ok {
		return Prompt{}, ErrInvalidTone
	}

	hasGoals := strings.TrimSpace(c.Goals) != ""
	sections := sectionsWithoutGoals
	if hasGoals {
		sections = sectionsWithGoals
	}

	var sys strings.Builder
	fmt.Fprintf(&sys, "You are %s writing a growth story from a user's professional journal.\n\n", profile.persona)
	sys.WriteString("Tone:\n")
	fmt.Fprintf(&sys, "- %s\n", profile.stance)
	fmt.Fprintf(&sys, "- %s\n", profile.verdict)
	fmt.Fprintf(&sys, "- %s\n\n", profile.gapsStyle)

	sys.WriteString("Structure your answer with exactly these section headings, in order:\n")
	for i, s := range sections {
		fmt.Fprintf(&sys, "%d. %s\n", i+1, s)
	}
	if !hasGoals {
		sys.WriteString("The user has no active goals, so do not invent any; judge activity on its own merits.\n")
	}
	sys.WriteString("\nFormat rules:\n")
	fmt.Fprintf(&sys, "- At most %d words in total.\n", maxWords)
	sys.WriteString("- Bullet points only, one to two lines per bullet.\n")
	sys.WriteString("- Cite concrete evidence from the journal for every claim.\n")
	sys.WriteString("- Explain the reasoning behind every judgment you make.\n")

	var usr strings.Builder
	usr.WriteString("## Profile\n")
	usr.WriteString(c.Profile)
	usr.WriteString("\n\n")
	if hasGoals {
		usr.WriteString("## Active Goals\n")
		usr.WriteString(c.Goals)
		usr.WriteString("\n\n")
	}
	usr.WriteString("## Journal Entries (oldest first)\n")
	usr.WriteString(c.Posts)
	usr.WriteString("\n\n")
	usr.WriteString("Write the growth story now. Respond in the same language as the journal entries. ")
	usr.WriteString("Back every claim with a concrete entry, and explain every judgment.")

	return Prompt{System: sys.String(), User: usr.String()}, nil
}
