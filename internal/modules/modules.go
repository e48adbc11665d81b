// Package modules names the learning modules a study log can come from. It is
// shared by the server, which validates incoming logs, and the CLI, which
// starts visits.
package modules

import (
	"fmt"
	"strings"
)

// Type tags the learning activity a study log came from.
type Type string

const (
	Roleplay      Type = "ROLEPLAY"
	Pronunciation Type = "PRONUNCIATION"
	VisualDict    Type = "VISUAL_DICT"
	KanjiStory    Type = "KANJI_STORY"
	Writing       Type = "WRITING"
	Quiz          Type = "QUIZ"
	Phrasebook    Type = "PHRASEBOOK"
)

// All lists every known module in display order.
var All = []Type{
	Roleplay,
	Pronunciation,
	VisualDict,
	KanjiStory,
	Writing,
	Quiz,
	Phrasebook,
}

func (m Type) Valid() bool {
	for _, k := range All {
		if k == m {
			return true
		}
	}
	return false
}

// Parse accepts a module name in any letter case.
func Parse(s string) (Type, error) {
	m := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown module %q", s)
	}
	return m, nil
}
