package content

import (
	"context"
	"fmt"
	"strings"
)

type KanjiExample struct {
	Sentence    string `json:"sentence"`
	Reading     string `json:"reading"`
	Romaji      string `json:"romaji"`
	Translation string `json:"translation"`
}

type KanjiExplanation struct {
	Kanji    string         `json:"kanji"`
	Reading  string         `json:"reading"`
	Romaji   string         `json:"romaji"`
	Meaning  string         `json:"meaning"`
	Mnemonic string         `json:"mnemonic"`
	Examples []KanjiExample `json:"examples"`
}

const kanjiSystem = "You are a patient Japanese teacher for JLPT N5/N4 learners."

// ExplainKanji asks for the reading, meaning, a mnemonic story and example
// sentences for a kanji or word.
func ExplainKanji(ctx context.Context, g Generator, kanji string) (*KanjiExplanation, error) {
	kanji = strings.TrimSpace(kanji)
	if kanji == "" {
		return nil, fmt.Errorf("content: kanji is required")
	}

	prompt := fmt.Sprintf(`Teach the kanji or word %q.
Write a short, memorable mnemonic story.
Return JSON with the fields: kanji, reading (kana), romaji, meaning, mnemonic,
examples [{sentence, reading, romaji, translation}].`, kanji)

	out, err := GenerateJSON[KanjiExplanation](ctx, g, PromptSpec{System: kanjiSystem, Prompt: prompt})
	if err != nil {
		return nil, err
	}
	if out.Kanji == "" {
		out.Kanji = kanji
	}
	return out, nil
}

// String renders the explanation for a terminal.
func (k *KanjiExplanation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s / %s]\n", k.Kanji, k.Reading, k.Romaji)
	fmt.Fprintf(&b, "Meaning:  %s\n", k.Meaning)
	fmt.Fprintf(&b, "Mnemonic: %s\n", k.Mnemonic)
	for _, e := range k.Examples {
		fmt.Fprintf(&b, "  - %s (%s)\n    %s\n", e.Sentence, e.Romaji, e.Translation)
	}
	return b.String()
}
