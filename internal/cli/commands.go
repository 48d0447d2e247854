// Package cli implements the viajeia command line client. The commands are
// a rendering layer: they observe the planner's view state and print it;
// all request lifecycle logic lives in internal/viajeia/planner.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/viajeia/planner"
	"github.com/viajeia/viajeia/internal/viajeia/session"
	"github.com/viajeia/viajeia/pkg/api"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "viajeia [command] [flags]",
	Short: "ViajeIA CLI - a travel planning assistant client",
	Long: `ViajeIA CLI is a client for the ViajeIA travel planning service.
It keeps an anonymous session across visits, sends your trip preferences and
questions to the service, and shows the answer together with destination
insights, your conversation history, and your favorite destinations.

Examples:
  # Ask for a plan
  viajeia plan "5 days in summer" --destination Paris --budget "USD 1500"

  # Start an interactive planning conversation
  viajeia chat --destination Paris

  # Save the current destination as a favorite
  viajeia favorites add Paris

  # Download the itinerary as a PDF
  viajeia export -o itinerary.pdf`,
	PersistentPreRun: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			kv := map[string]string{
				"error": err.Error(),
			}
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents loads the configuration before command execution.
// A missing config file is not an error: the client falls back to defaults
// and the VIAJEIA_API_URL environment override.
func preRunHandlePersistents(cmd *cobra.Command, args []string) {
	if err := LoadConfig(configFile); err != nil {
		errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newPlanner wires a planner with the durable session id and the configured
// service client, and kicks off the best-effort favorites hydration.
func newPlanner(cmd *cobra.Command) *planner.Planner {
	sessionID := session.NewStore().GetOrCreate()
	client := api.NewClient(GetConfig())
	p := planner.New(sessionID, client, log.Logger)
	go p.BootstrapFavorites(cmd.Context())
	return p
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the viajeia CLI",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := GetDefaultConfigPath()
			if err != nil {
				configPath = "unknown"
			}

			if jsonOutput {
				kv := map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				}
				printJSON(kv)
			} else {
				cmd.Printf("viajeia CLI %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints the given map as JSON to stdout
func printJSON(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
