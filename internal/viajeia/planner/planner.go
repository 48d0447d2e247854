// Package planner owns the request lifecycle of the ViajeIA client: the
// plan operation's idle → submitting → success/failed state machine, the
// auxiliary save-favorite and export operations, and the best-effort
// favorites bootstrap. It reconciles successful responses into the view
// state, replacing local state with the server's authoritative snapshot.
package planner

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/viajeia/viajeia/internal/viajeia/survey"
	"github.com/viajeia/viajeia/pkg/api"
)

// Planner is the event-driven controller of the client. It owns the view
// state behind a mutex and enforces the operation guards: a single-slot
// in-flight token for plan submissions, a sequence number that discards
// late stale responses, and an explicit flag serializing exports.
type Planner struct {
	mu    sync.Mutex
	state State

	client *api.Client
	log    zerolog.Logger

	planSeq      uint64 // latest issued plan submission
	inFlight     bool   // single-slot token for the plan operation
	exporting    bool   // explicit export mutual-exclusion flag
	bootstrapped bool   // favorites bootstrap runs once per planner
}

// New creates a Planner for the given session. The session id is
// established once at startup and immutable afterwards.
func New(sessionID string, client *api.Client, log zerolog.Logger) *Planner {
	return &Planner{
		state:  State{SessionID: sessionID, Phase: PhaseIdle},
		client: client,
		log:    log,
	}
}

// Snapshot returns a copy of the current view state.
func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.copyForSnapshot()
}

// SubmitPlan builds the composite message from the survey context and the
// question and drives one plan request. A blank question or an invalid
// survey is rejected locally without touching the network. While a
// submission holds the in-flight slot, further submissions are rejected
// with ErrPlanInFlight. If ctx expires before the service answers, the
// submission is abandoned: the slot is released and a response arriving
// later is discarded as stale.
func (p *Planner) SubmitPlan(ctx context.Context, sc survey.Context, question string) error {
	message, err := survey.BuildMessage(sc, question)
	if err != nil {
		p.mu.Lock()
		p.state.LastError = err.Error()
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrPlanInFlight
	}
	p.inFlight = true
	p.planSeq++
	seq := p.planSeq
	p.state.Phase = PhaseSubmitting
	p.state.clearPlanViews()
	req := &api.PlanRequest{Pregunta: message, SessionID: p.state.SessionID}
	p.mu.Unlock()

	type planResult struct {
		resp *api.PlanResponse
		err  error
	}
	done := make(chan planResult, 1)
	go func() {
		resp, err := p.client.Plan(ctx, req)
		p.finishPlan(seq, resp, err)
		done <- planResult{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return ErrPlanFailed.Err(r.err)
		}
		return nil
	case <-ctx.Done():
		// The result may have landed at the same instant; prefer it.
		select {
		case r := <-done:
			if r.err != nil {
				return ErrPlanFailed.Err(r.err)
			}
			return nil
		default:
		}
		p.abandonPlan(seq)
		return ErrPlanFailed.Err(ctx.Err())
	}
}

// finishPlan applies the outcome of submission seq. A result whose sequence
// no longer matches the latest issued one is discarded: a newer submission
// owns the views now. Returns whether the result was applied.
func (p *Planner) finishPlan(seq uint64, resp *api.PlanResponse, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.planSeq {
		p.log.Debug().Uint64("seq", seq).Uint64("latest", p.planSeq).Msg("discarding stale plan response")
		return false
	}
	p.inFlight = false
	if err != nil {
		p.state.Phase = PhaseFailed
		p.state.LastError = ErrPlanFailed.Error()
		return true
	}
	p.state.Phase = PhaseSuccess
	p.state.applyPlan(resp)
	return true
}

// abandonPlan gives up on submission seq after ctx expired. Bumping the
// sequence invalidates the request still on the wire, so its eventual
// response cannot overwrite a newer submission's views.
func (p *Planner) abandonPlan(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.planSeq || !p.inFlight {
		return
	}
	p.planSeq++
	p.inFlight = false
	p.state.Phase = PhaseFailed
	p.state.LastError = ErrPlanFailed.Error()
}

// SaveFavorite saves the current destination to the session's favorites:
// the destination of the most recent history entry when one exists, else
// the given survey destination. On success the favorites view is replaced
// with the server's list; on failure it is left untouched.
func (p *Planner) SaveFavorite(ctx context.Context, surveyDestination string) ([]string, error) {
	p.mu.Lock()
	sessionID := p.state.SessionID
	destination := p.state.currentDestination(surveyDestination)
	p.mu.Unlock()

	if sessionID == "" || destination == "" {
		return nil, ErrMissingDestination
	}

	resp, err := p.client.SaveFavorite(ctx, &api.FavoriteRequest{
		SessionID: sessionID,
		Destino:   destination,
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.LastError = ErrFavoriteFailed.Error()
		return nil, ErrFavoriteFailed.Err(err)
	}
	p.state.applyFavorites(resp.Favorites)
	return append([]string(nil), p.state.Favorites...), nil
}

// ExportItinerary downloads the itinerary document into w. It returns
// ErrNothingToExport when there is no session or no history yet and
// ErrExportInProgress when a download already holds the export flag;
// interactive surfaces treat both as silent no-ops. The flag is released
// on every path.
func (p *Planner) ExportItinerary(ctx context.Context, w io.Writer) error {
	p.mu.Lock()
	if p.exporting {
		p.mu.Unlock()
		return ErrExportInProgress
	}
	if p.state.SessionID == "" || len(p.state.History) == 0 {
		p.mu.Unlock()
		return ErrNothingToExport
	}
	p.exporting = true
	sessionID := p.state.SessionID
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.exporting = false
		p.mu.Unlock()
	}()

	body, err := p.client.DownloadItinerary(ctx, sessionID)
	if err != nil {
		p.setLastError(ErrExportFailed.Error())
		return ErrExportFailed.Err(err)
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		p.setLastError(ErrExportFailed.Error())
		return ErrExportFailed.Err(err)
	}
	return nil
}

// BootstrapFavorites hydrates the favorites view from the service, once
// per planner. It is best-effort: failure is logged and never surfaced,
// and it never blocks other operations.
func (p *Planner) BootstrapFavorites(ctx context.Context) {
	p.mu.Lock()
	if p.bootstrapped || p.state.SessionID == "" {
		p.mu.Unlock()
		return
	}
	p.bootstrapped = true
	sessionID := p.state.SessionID
	p.mu.Unlock()

	resp, err := p.client.ListFavorites(ctx, sessionID)
	if err != nil {
		p.log.Warn().Err(err).Msg("favorites bootstrap failed")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.applyFavorites(resp.Favorites)
}

func (p *Planner) setLastError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LastError = msg
}
