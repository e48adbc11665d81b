// Package history records study visits for the signed-in user. Writes are
// best effort: they run in the background and failures are only logged.
package history

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/client/client"
	"github.com/dmitrijs2005/nihongo/internal/client/models"
	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/logging"
)

const writeTimeout = 10 * time.Second

// Session is the part of the session manager the recorder reads.
type Session interface {
	CurrentIdentity() (models.Identity, bool)
	Token() string
}

type Recorder struct {
	api     client.API
	session Session
	log     logging.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewRecorder(api client.API, s Session, log logging.Logger) *Recorder {
	return &Recorder{api: api, session: s, log: log.With("module", "history"), now: time.Now}
}

// Record posts one log entry in the background. It does nothing when no one
// is signed in and never blocks on the network.
func (r *Recorder) Record(ctx context.Context, module string, durationSec, accuracyScore int) {
	id, ok := r.session.CurrentIdentity()
	if !ok {
		return
	}
	token := r.session.Token()
	entry := models.NewStudyLog{
		UserID:        id.ID,
		ModuleType:    module,
		DurationSec:   durationSec,
		AccuracyScore: accuracyScore,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		// outlive the caller's request, but not forever
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		defer cancel()

		if err := r.api.RecordHistory(wctx, token, entry); err != nil {
			r.log.Warn(wctx, "record study log failed", "module", module, "error", err)
		}
	}()
}

// Wait blocks until every background write has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// FetchRecent returns the newest logs of the signed-in user. Any failure
// yields an empty slice.
func (r *Recorder) FetchRecent(ctx context.Context) []models.StudyLog {
	id, ok := r.session.CurrentIdentity()
	if !ok {
		return []models.StudyLog{}
	}

	logs, err := r.api.FetchHistory(ctx, r.session.Token(), id.ID)
	if err != nil {
		r.log.Warn(ctx, "fetch history failed", "error", err)
		return []models.StudyLog{}
	}
	if len(logs) > common.HistoryLimit {
		logs = logs[:common.HistoryLimit]
	}
	if logs == nil {
		logs = []models.StudyLog{}
	}
	return logs
}

// Visit times one stay in a learning module.
type Visit struct {
	r       *Recorder
	module  string
	started time.Time
	once    sync.Once
}

func (r *Recorder) StartVisit(module string) *Visit {
	return &Visit{r: r, module: module, started: r.now()}
}

// Finish records the visit if it lasted longer than common.MinVisitDuration
// and reports whether a write was issued. Only the first call counts.
func (v *Visit) Finish(ctx context.Context, accuracyScore int) bool {
	recorded := false
	v.once.Do(func() {
		d := v.r.now().Sub(v.started)
		if d <= common.MinVisitDuration {
			return
		}
		secs := int(math.Round(d.Seconds()))
		v.r.Record(ctx, v.module, secs, clampScore(accuracyScore))
		_, recorded = v.r.session.CurrentIdentity()
	})
	return recorded
}

func clampScore(s int) int {
	return min(max(s, 0), 100)
}
