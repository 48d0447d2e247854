package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/viajeia/planner"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [flags]",
	Short: "Start an interactive planning conversation",
	Long: `Start an interactive planning conversation. Each line you type is sent to
the travel assistant as a question, together with the trip-preference flags.
Lines starting with "/" are client commands:

  /fav [DESTINO]  save the current destination (or DESTINO) as a favorite
  /panel          show the destination insights panel
  /history        show the conversation history
  /favorites      show your favorite destinations
  /export [FILE]  download the itinerary PDF
  /quit           leave the conversation

Examples:
  # Converse about a trip to Paris
  viajeia chat --destination Paris --style culture`,
	RunE: runChat,
}

func init() {
	addSurveyFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	p := newPlanner(cmd)

	answerLabel.Println("ViajeIA — describe tu viaje y pregunta lo que quieras. /quit para salir.")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(cmd, p, line); quit {
				return nil
			}
			continue
		}

		if err := p.SubmitPlan(cmd.Context(), surveyFromFlags(), line); err != nil {
			errorLabel.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		printPlanView(p.Snapshot())
	}
}

// runChatCommand dispatches a "/" command. Returns true when the
// conversation should end.
func runChatCommand(cmd *cobra.Command, p *planner.Planner, line string) bool {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/quit", "/exit":
		return true

	case "/fav":
		fallback := arg
		if fallback == "" {
			fallback = surveyDestination
		}
		favorites, err := p.SaveFavorite(cmd.Context(), fallback)
		if err != nil {
			errorLabel.Fprintf(os.Stderr, "%v\n", err)
			return false
		}
		okLabel.Println("Destino guardado en favoritos.")
		printFavorites(favorites)

	case "/panel":
		printPanel(p.Snapshot().Panel)

	case "/history":
		printHistory(p.Snapshot().History)

	case "/favorites":
		printFavorites(p.Snapshot().Favorites)

	case "/export":
		exportFromChat(cmd.Context(), p, arg)

	default:
		dimText.Printf("Comando desconocido: %s\n", command)
	}
	return false
}

// exportFromChat downloads the itinerary from within a conversation.
// "Nothing to export" and "already downloading" are silent no-ops. The file
// is written only after the download completed, so a rejected or failed
// export never disturbs an existing file of the same name.
func exportFromChat(ctx context.Context, p *planner.Planner, filename string) {
	if filename == "" {
		filename = defaultItineraryFilename(p.Snapshot().SessionID)
	}

	var buf bytes.Buffer
	if err := p.ExportItinerary(ctx, &buf); err != nil {
		if errors.Is(err, planner.ErrNothingToExport) || errors.Is(err, planner.ErrExportInProgress) {
			return
		}
		errorLabel.Fprintf(os.Stderr, "%v\n", err)
		return
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		errorLabel.Fprintf(os.Stderr, "%v\n", planner.ErrExportFailed.Err(err))
		return
	}
	okLabel.Printf("Itinerario guardado en %s\n", filename)
}
