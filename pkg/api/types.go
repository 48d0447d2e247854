// Package api provides a typed client for the ViajeIA planning service.
// Wire field names follow the service contract, which speaks Spanish on the
// wire (pregunta, respuesta, fotos, destino).
package api

// PlanRequest is the body of POST /plan. Pregunta carries the composite
// planning message (survey fragments plus the traveler's question).
type PlanRequest struct {
	Pregunta  string `json:"pregunta"`
	SessionID string `json:"session_id,omitempty"`
}

// PanelSection is one facet of the destination insights panel.
type PanelSection struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// PanelInfo is the destination insights panel. A nil facet means the
// service had no data for it, not an error.
type PanelInfo struct {
	Currency *PanelSection `json:"currency,omitempty"`
	Time     *PanelSection `json:"time,omitempty"`
	Weather  *PanelSection `json:"weather,omitempty"`
}

// IsEmpty reports whether no facet is present.
func (p *PanelInfo) IsEmpty() bool {
	return p == nil || (p.Currency == nil && p.Time == nil && p.Weather == nil)
}

// HistoryEntry is one question/answer turn of the conversation ledger.
// Entries are server-assigned; the client never fabricates them.
type HistoryEntry struct {
	Pregunta  string `json:"pregunta"`
	Respuesta string `json:"respuesta,omitempty"`
	Destino   string `json:"destino,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PlanResponse is the body of a successful POST /plan. It is the full
// authoritative snapshot of the server-side conversation state for the
// session: history and favorites replace whatever the client holds.
type PlanResponse struct {
	Respuesta string         `json:"respuesta"`
	Fotos     []string       `json:"fotos"`
	Panel     *PanelInfo     `json:"panel,omitempty"`
	History   []HistoryEntry `json:"history"`
	Favorites []string       `json:"favorites"`
}

// FavoriteRequest is the body of POST /favorites.
type FavoriteRequest struct {
	SessionID string `json:"session_id"`
	Destino   string `json:"destino"`
}

// FavoritesResponse is the body of both favorites endpoints.
type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
