package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajeia/viajeia/internal/viajeia/survey"
	"github.com/viajeia/viajeia/pkg/api"
)

type testConfig struct {
	serverURL string
}

func (c *testConfig) GetServerURL() string {
	return c.serverURL
}

func newTestPlanner(serverURL, sessionID string) *Planner {
	client := api.NewClient(&testConfig{serverURL: serverURL})
	return New(sessionID, client, zerolog.Nop())
}

func planResponseJSON(answer, destino string, favorites ...string) []byte {
	resp := api.PlanResponse{
		Respuesta: answer,
		Fotos:     []string{"https://images.example/a", "https://images.example/b"},
		Panel: &api.PanelInfo{
			Currency: &api.PanelSection{Label: "Tipo de cambio", Value: "1 USD ≈ 0,92 EUR"},
		},
		History: []api.HistoryEntry{
			{Pregunta: "q", Respuesta: answer, Destino: destino, Timestamp: "2026-08-23T10:00:00Z"},
		},
		Favorites: favorites,
	}
	raw, _ := json.Marshal(resp)
	return raw
}

func TestSubmitPlanSuccessReplacesViews(t *testing.T) {
	var call atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/plan", r.URL.Path)
		n := call.Add(1)
		w.Write(planResponseJSON(fmt.Sprintf("respuesta %d", n), "Paris", "Roma"))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")

	err := p.SubmitPlan(context.Background(), survey.Context{Destination: "Paris"}, "5 días")
	require.NoError(t, err)

	st := p.Snapshot()
	assert.Equal(t, PhaseSuccess, st.Phase)
	assert.Equal(t, "respuesta 1", st.Answer)
	assert.Len(t, st.Photos, 2)
	require.NotNil(t, st.Panel)
	assert.Equal(t, "Tipo de cambio", st.Panel.Currency.Label)
	require.Len(t, st.History, 1)
	assert.Equal(t, []string{"Roma"}, st.Favorites)
	assert.Empty(t, st.LastError)

	// A second response replaces everything verbatim, no merging.
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "otra pregunta"))
	st = p.Snapshot()
	assert.Equal(t, "respuesta 2", st.Answer)
	assert.Len(t, st.History, 1)
}

func TestSubmitPlanEmptyAnswerUsesPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"respuesta": "", "fotos": [], "panel": null, "history": [], "favorites": []}`))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	st := p.Snapshot()
	assert.Equal(t, AnswerPlaceholder, st.Answer)
	assert.Nil(t, st.Panel)
}

func TestSubmitPlanServerErrorKeepsLedger(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "se rompió"}`))
			return
		}
		w.Write(planResponseJSON("primera", "Paris", "Roma"))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	fail.Store(true)
	err := p.SubmitPlan(context.Background(), survey.Context{}, "otra")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanFailed)
	assert.ErrorIs(t, err, ErrTransport)

	st := p.Snapshot()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, ErrPlanFailed.Error(), st.LastError)
	// Stale-result suppression cleared the answer views...
	assert.Empty(t, st.Answer)
	assert.Empty(t, st.Photos)
	assert.Nil(t, st.Panel)
	// ...but the ledger from the previous success is untouched.
	require.Len(t, st.History, 1)
	assert.Equal(t, []string{"Roma"}, st.Favorites)

	// Recovery is user-driven: a manual resubmission works.
	fail.Store(false)
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "de nuevo"))
	assert.Equal(t, PhaseSuccess, p.Snapshot().Phase)
}

func TestSubmitPlanBlankQuestionMakesNoNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	for _, q := range []string{"", "   ", "\t\n"} {
		err := p.SubmitPlan(context.Background(), survey.Context{}, q)
		require.Error(t, err)
		assert.ErrorIs(t, err, survey.ErrEmptyQuestion)
	}
	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, survey.ErrEmptyQuestion.Error(), p.Snapshot().LastError)
}

func TestSubmitPlanInFlightGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write(planResponseJSON("lenta", "Paris"))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- p.SubmitPlan(context.Background(), survey.Context{}, "primera")
	}()
	<-started

	err := p.SubmitPlan(context.Background(), survey.Context{}, "segunda")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanInFlight)
	assert.ErrorIs(t, err, ErrValidation)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, "lenta", p.Snapshot().Answer)
}

func TestStalePlanResultDiscarded(t *testing.T) {
	p := newTestPlanner("http://127.0.0.1:0", "sess-1")
	p.mu.Lock()
	p.inFlight = true
	p.planSeq = 2
	p.state.Phase = PhaseSubmitting
	p.mu.Unlock()

	resp := api.PlanResponse{Respuesta: "tardía"}
	applied := p.finishPlan(1, &resp, nil)
	assert.False(t, applied)

	st := p.Snapshot()
	assert.Equal(t, PhaseSubmitting, st.Phase)
	assert.Empty(t, st.Answer)

	// The current submission still applies normally.
	applied = p.finishPlan(2, &resp, nil)
	assert.True(t, applied)
	assert.Equal(t, "tardía", p.Snapshot().Answer)
}

func TestAbandonedPlanFreesSlot(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var slow atomic.Bool
	slow.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			close(started)
			<-release
			return
		}
		w.Write(planResponseJSON("fresca", "Paris"))
	}))
	defer srv.Close()
	defer close(release)

	p := newTestPlanner(srv.URL, "sess-1")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := p.SubmitPlan(ctx, survey.Context{}, "lenta")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanFailed)
	assert.Equal(t, PhaseFailed, p.Snapshot().Phase)

	// The slot was released; a new submission proceeds and wins.
	slow.Store(false)
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "rápida"))
	assert.Equal(t, "fresca", p.Snapshot().Answer)
}

func TestSaveFavoriteUsesMostRecentHistoryDestination(t *testing.T) {
	var savedDestino atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			w.Write(planResponseJSON("ok", "Kyoto"))
		case "/favorites":
			var req api.FavoriteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			savedDestino.Store(req.Destino)
			w.Write([]byte(`{"favorites": ["Kyoto"]}`))
		}
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{Destination: "Osaka"}, "hola"))

	favorites, err := p.SaveFavorite(context.Background(), "Osaka")
	require.NoError(t, err)
	// History wins over the survey field.
	assert.Equal(t, "Kyoto", savedDestino.Load())
	assert.Equal(t, []string{"Kyoto"}, favorites)
	assert.Equal(t, []string{"Kyoto"}, p.Snapshot().Favorites)
}

func TestSaveFavoriteFallsBackToSurveyDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.FavoriteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Roma", req.Destino)
		w.Write([]byte(`{"favorites": ["Roma"]}`))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	favorites, err := p.SaveFavorite(context.Background(), "Roma")
	require.NoError(t, err)
	assert.Equal(t, []string{"Roma"}, favorites)
}

func TestSaveFavoriteMissingDestination(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	_, err := p.SaveFavorite(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDestination)
	assert.Equal(t, int64(0), calls.Load())
}

func TestSaveFavoriteFailureKeepsList(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"favorites": ["Roma"]}`))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	_, err := p.SaveFavorite(context.Background(), "Roma")
	require.NoError(t, err)

	fail.Store(true)
	_, err = p.SaveFavorite(context.Background(), "Paris")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFavoriteFailed)
	assert.Equal(t, []string{"Roma"}, p.Snapshot().Favorites)
}

func TestExportItinerary(t *testing.T) {
	payload := []byte("%PDF-1.4 itinerary body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			w.Write(planResponseJSON("ok", "Paris"))
		case "/itinerary/pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(payload)
		}
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	var buf bytes.Buffer
	require.NoError(t, p.ExportItinerary(context.Background(), &buf))
	assert.Equal(t, payload, buf.Bytes())
}

func TestExportNoOpsWithoutHistory(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	var buf bytes.Buffer
	err := p.ExportItinerary(context.Background(), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Equal(t, int64(0), calls.Load())
}

func TestExportSecondInvocationIsNoOp(t *testing.T) {
	var downloads atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			w.Write(planResponseJSON("ok", "Paris"))
		case "/itinerary/pdf":
			downloads.Add(1)
			close(started)
			<-release
			w.Write([]byte("%PDF-1.4"))
		}
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	firstDone := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		firstDone <- p.ExportItinerary(context.Background(), &buf)
	}()
	<-started

	var buf bytes.Buffer
	err := p.ExportItinerary(context.Background(), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int64(1), downloads.Load())
}

func TestExportFlagReleasedAfterFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			w.Write(planResponseJSON("ok", "Paris"))
		case "/itinerary/pdf":
			if fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("%PDF-1.4"))
		}
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	var buf bytes.Buffer
	err := p.ExportItinerary(context.Background(), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailed)

	fail.Store(false)
	buf.Reset()
	require.NoError(t, p.ExportItinerary(context.Background(), &buf))
	assert.NotEmpty(t, buf.Bytes())
}

func TestBootstrapFavorites(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"favorites": ["Lisboa"]}`))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	p.BootstrapFavorites(context.Background())
	assert.Equal(t, []string{"Lisboa"}, p.Snapshot().Favorites)

	// Runs once per planner.
	p.BootstrapFavorites(context.Background())
	assert.Equal(t, int64(1), calls.Load())
}

func TestBootstrapFavoritesFailureIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	p.BootstrapFavorites(context.Background())

	st := p.Snapshot()
	assert.Empty(t, st.Favorites)
	assert.Empty(t, st.LastError)
}

func TestSnapshotIsACopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(planResponseJSON("ok", "Paris", "Roma"))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))

	st := p.Snapshot()
	st.Favorites[0] = "mutada"
	st.History[0].Destino = "mutado"

	fresh := p.Snapshot()
	assert.Equal(t, "Roma", fresh.Favorites[0])
	assert.Equal(t, "Paris", fresh.History[0].Destino)
}

func TestBootstrapSkippedWithoutSession(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "")
	p.BootstrapFavorites(context.Background())
	assert.Equal(t, int64(0), calls.Load())
}

func TestCurrentDestinationRule(t *testing.T) {
	st := State{}
	assert.Equal(t, "Osaka", st.currentDestination(" Osaka "))

	st.History = []api.HistoryEntry{
		{Destino: "Paris", Timestamp: "t1"},
		{Destino: "Kyoto", Timestamp: "t2"},
	}
	assert.Equal(t, "Kyoto", st.currentDestination("Osaka"))

	// A most-recent entry without a destination falls back to the survey.
	st.History = append(st.History, api.HistoryEntry{Timestamp: "t3"})
	assert.Equal(t, "Osaka", st.currentDestination("Osaka"))
}

// Guards against regressions in the clear-then-set ordering: no observer
// sees a half-applied response because Snapshot copies under the lock.
func TestSubmittingClearsAnswerViews(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var slow atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			close(started)
			<-release
		}
		w.Write(planResponseJSON("ok", "Paris"))
	}))
	defer srv.Close()

	p := newTestPlanner(srv.URL, "sess-1")
	require.NoError(t, p.SubmitPlan(context.Background(), survey.Context{}, "hola"))
	require.NotEmpty(t, p.Snapshot().Answer)

	slow.Store(true)
	done := make(chan error, 1)
	go func() {
		done <- p.SubmitPlan(context.Background(), survey.Context{}, "segunda")
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("plan request never reached the service")
	}

	st := p.Snapshot()
	assert.Equal(t, PhaseSubmitting, st.Phase)
	assert.Empty(t, st.Answer)
	assert.Nil(t, st.Panel)
	require.Len(t, st.History, 1) // ledger survives the clear

	close(release)
	require.NoError(t, <-done)
}
