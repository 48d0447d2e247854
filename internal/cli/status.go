package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/pkg/api"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the planning service is reachable",
	Long: `Check that the planning service is reachable and report its health.

Examples:
  # Check the service
  viajeia status

  # Check the service in JSON format
  viajeia status -j`,
	RunE: getStatus,
}

// getStatus handles retrieving the service health
func getStatus(cmd *cobra.Command, args []string) error {
	client := api.NewClient(GetConfig())

	resp, err := client.Health(cmd.Context())
	if err != nil {
		if jsonOutput {
			kv := map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Unable to connect to server: " + err.Error(),
			}
			printJSON(kv)
		} else {
			fmt.Printf("viajeia CLI %s\n", getCLIVersion())
			fmt.Println("Error: Unable to connect to server: " + err.Error())
		}
		return ErrAlreadyHandled
	}

	if jsonOutput {
		printJSON(map[string]string{
			"version_cli": getCLIVersion(),
			"status":      resp.Status,
			"message":     resp.Message,
		})
	} else {
		fmt.Printf("viajeia CLI %s\n", getCLIVersion())
		fmt.Printf("Server: %s\n", GetConfig().GetServerURL())
		fmt.Printf("Status: %s", resp.Status)
		if resp.Message != "" {
			fmt.Printf(" (%s)", resp.Message)
		}
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
