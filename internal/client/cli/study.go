package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/nihongo/internal/content"
	"github.com/dmitrijs2005/nihongo/internal/filex"
	"github.com/dmitrijs2005/nihongo/internal/modules"
)

func (a *App) History(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errLoginRequired
	}

	logs := a.history.FetchRecent(ctx)
	if len(logs) == 0 {
		a.println("No study history yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tMODULE\tDURATION\tSCORE")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%ds\t%d\n", l.CompletedAt.Local().Format("2006-01-02 15:04"), l.ModuleType, l.DurationSec, l.AccuracyScore)
	}
	return tw.Flush()
}

// Study times a visit to module: the visit ends when the user presses Enter
// and enters a score.
func (a *App) Study(ctx context.Context, module string) error {
	if !a.isLoggedIn() {
		return errLoginRequired
	}

	m, err := modules.Parse(module)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, moduleNames())
	}

	visit := a.history.StartVisit(string(m))
	fmt.Fprintf(a.out, "Studying %s. Press Enter when you are done.\n", m)
	if _, err := a.reader.ReadString('\n'); err != nil {
		return err
	}

	raw, err := getSimpleText(a.reader, "Your score (0-100, empty for 0)", a.out)
	if err != nil {
		return err
	}
	score := 0
	if raw != "" {
		if score, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("score must be a number")
		}
	}

	if visit.Finish(ctx, score) {
		a.println("Session saved")
	} else {
		a.println("Too short to record")
	}
	return nil
}

// Kanji explains word with the user's own API key and records the visit as
// KANJI_STORY, scoring 100 when an explanation was shown.
func (a *App) Kanji(ctx context.Context, word string) error {
	apiKey, ok := a.session.Secret()
	if !ok {
		return errLoginRequired
	}

	visit := a.history.StartVisit(string(modules.KanjiStory))
	score := 0
	defer func() { visit.Finish(ctx, score) }()

	gen, err := a.newGenerator(ctx, apiKey)
	if err != nil {
		return err
	}

	k, err := content.ExplainKanji(ctx, gen, word)
	if err != nil {
		return err
	}
	score = 100

	fmt.Fprint(a.out, k.String())
	a.println("Press Enter when you are done.")
	_, _ = a.reader.ReadString('\n')
	return nil
}

// Export snapshots the history into object storage. With a destination the
// snapshot is also downloaded and written there.
func (a *App) Export(ctx context.Context, dest string) error {
	id, ok := a.session.CurrentIdentity()
	if !ok {
		return errLoginRequired
	}

	out, err := a.api.ExportHistory(ctx, a.session.Token(), id.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "History exported to %s\n", out.Key)

	if dest == "" || a.download == nil {
		fmt.Fprintf(a.out, "Download (valid for a limited time): %s\n", out.URL)
		return nil
	}

	body, err := a.download(ctx, out.URL)
	if err != nil {
		return err
	}
	if err := filex.WriteFilePrivate(dest, body); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", dest)
	return nil
}

func moduleNames() string {
	names := make([]string, len(modules.All))
	for i, m := range modules.All {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
