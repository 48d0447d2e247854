package planner

import (
	"strings"

	"github.com/viajeia/viajeia/pkg/api"
)

// Phase is the lifecycle phase of the plan operation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// AnswerPlaceholder is displayed when a successful response carries no
// answer text.
const AnswerPlaceholder = "Aún no hay una respuesta para mostrar."

// State is the view state of the client: the answer with photos, the
// insights panel, and the history/favorites ledger. It is owned by the
// Planner and handed out to rendering code as a copy, never as shared
// mutable data.
type State struct {
	SessionID string
	Phase     Phase

	Answer    string
	Photos    []string
	Panel     *api.PanelInfo
	History   []api.HistoryEntry
	Favorites []string

	// LastError holds the user-facing message of the most recent failed
	// operation, cleared when a new plan submission starts.
	LastError string
}

// clearPlanViews suppresses stale results when a new submission starts.
// History and favorites are left untouched; only the server replaces them.
func (s *State) clearPlanViews() {
	s.Answer = ""
	s.Photos = nil
	s.Panel = nil
	s.LastError = ""
}

// applyPlan reconciles a successful plan response into the views. The
// response is the server's full snapshot, so every field replaces local
// state verbatim; nothing is merged.
func (s *State) applyPlan(resp *api.PlanResponse) {
	answer := strings.TrimSpace(resp.Respuesta)
	if answer == "" {
		answer = AnswerPlaceholder
	}
	s.Answer = answer
	s.Photos = append([]string(nil), resp.Fotos...)
	s.Panel = resp.Panel
	s.History = append([]api.HistoryEntry(nil), resp.History...)
	s.Favorites = append([]string(nil), resp.Favorites...)
}

// applyFavorites replaces the favorites list with the server's list.
func (s *State) applyFavorites(favorites []string) {
	s.Favorites = append([]string(nil), favorites...)
}

// currentDestination resolves the destination a save-favorite targets: the
// destination of the most recent history entry when one exists, else the
// given survey destination.
func (s *State) currentDestination(surveyDestination string) string {
	if n := len(s.History); n > 0 {
		if d := strings.TrimSpace(s.History[n-1].Destino); d != "" {
			return d
		}
	}
	return strings.TrimSpace(surveyDestination)
}

// copyForSnapshot returns a copy safe to hand to rendering code.
func (s *State) copyForSnapshot() State {
	cp := *s
	cp.Photos = append([]string(nil), s.Photos...)
	cp.History = append([]api.HistoryEntry(nil), s.History...)
	cp.Favorites = append([]string(nil), s.Favorites...)
	if s.Panel != nil {
		panel := *s.Panel
		cp.Panel = &panel
	}
	return cp
}
