package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/viajeia/viajeia/internal/viajeia/planner"
	"github.com/viajeia/viajeia/pkg/api"
)

// PanelPlaceholder is shown when the insights panel has no facets.
const PanelPlaceholder = "Sin datos adicionales por ahora."

var answerLabel = color.New(color.FgHiCyan, color.Bold)
var panelLabel = color.New(color.FgHiMagenta, color.Bold)
var facetLabel = color.New(color.FgGreen)
var dimText = color.New(color.FgHiWhite, color.Faint)

// printPlanView renders the full view state after a plan request: answer,
// photos, insights panel, history, and favorites.
func printPlanView(st planner.State) {
	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"value": map[string]any{
				"answer":    st.Answer,
				"photos":    st.Photos,
				"panel":     st.Panel,
				"history":   st.History,
				"favorites": st.Favorites,
			},
		})
		return
	}

	answerLabel.Println("Alex, tu consultor personal de viajes:")
	fmt.Println(st.Answer)

	if len(st.Photos) > 0 {
		fmt.Println()
		panelLabel.Println("Inspiración visual")
		for _, url := range st.Photos {
			dimText.Printf("  %s\n", url)
		}
	}

	fmt.Println()
	printPanel(st.Panel)

	if len(st.History) > 0 {
		fmt.Println()
		printHistory(st.History)
	}

	if len(st.Favorites) > 0 {
		fmt.Println()
		printFavorites(st.Favorites)
	}
}

// printPanel renders the insights panel. Absent facets are skipped; a panel
// with no facets at all renders the placeholder.
func printPanel(panel *api.PanelInfo) {
	panelLabel.Println("Datos del destino")
	if panel.IsEmpty() {
		dimText.Printf("  %s\n", PanelPlaceholder)
		return
	}
	for _, section := range []*api.PanelSection{panel.Currency, panel.Time, panel.Weather} {
		if section == nil {
			continue
		}
		facetLabel.Printf("  %s: ", section.Label)
		fmt.Print(section.Value)
		if section.Description != "" {
			dimText.Printf("  %s", section.Description)
		}
		fmt.Println()
	}
}

// printHistory renders the conversation ledger in submission order.
func printHistory(entries []api.HistoryEntry) {
	panelLabel.Println("Historial de la conversación")
	if len(entries) == 0 {
		dimText.Println("  Aún no hay preguntas en esta sesión.")
		return
	}
	for _, entry := range entries {
		facetLabel.Printf("  • %s", firstLine(entry.Pregunta))
		if entry.Destino != "" {
			dimText.Printf("  (%s)", entry.Destino)
		}
		fmt.Println()
		if entry.Respuesta != "" {
			fmt.Printf("    %s\n", firstLine(entry.Respuesta))
		}
	}
}

// printFavorites renders the favorites list.
func printFavorites(favorites []string) {
	panelLabel.Println("Destinos favoritos")
	if len(favorites) == 0 {
		dimText.Println("  Todavía no guardaste destinos.")
		return
	}
	for _, destino := range favorites {
		fmt.Printf("  ★ %s\n", destino)
	}
}

// firstLine truncates multi-line text for list rendering.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " …"
	}
	return text
}
