package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/common/httpclient"
	"github.com/viajeia/viajeia/internal/viajeia/planner"
	"github.com/viajeia/viajeia/internal/viajeia/session"
	"github.com/viajeia/viajeia/pkg/api"
)

var exportOutput string

// defaultItineraryFilename mirrors the attachment filename the service
// assigns: viajeia-itinerario-<first 8 chars of the session id>.pdf.
func defaultItineraryFilename(sessionID string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	return fmt.Sprintf("viajeia-itinerario-%s.pdf", sessionID)
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [flags]",
	Short: "Download the itinerary as a PDF",
	Long: `Download the itinerary document built from your conversation history.
The service needs at least one conversation turn for this session.

Examples:
  # Download with the default filename
  viajeia export

  # Download to a specific file
  viajeia export -o my-trip.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := session.NewStore().GetOrCreate()
		client := api.NewClient(GetConfig())

		filename := exportOutput
		if filename == "" {
			filename = defaultItineraryFilename(sessionID)
		}

		body, err := client.DownloadItinerary(cmd.Context(), sessionID)
		if err != nil {
			var httpErr *httpclient.HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
				return planner.ErrNothingToExport
			}
			return planner.ErrExportFailed.Err(err)
		}
		defer body.Close()

		file, err := os.Create(filename)
		if err != nil {
			return planner.ErrExportFailed.Err(err)
		}

		_, err = io.Copy(file, body)
		file.Close()
		if err != nil {
			os.Remove(filename)
			return planner.ErrExportFailed.Err(err)
		}

		if jsonOutput {
			printJSON(map[string]string{"file": filename})
		} else {
			okLabel.Printf("Itinerario guardado en %s\n", filename)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File to save the itinerary to")
	rootCmd.AddCommand(exportCmd)
}
