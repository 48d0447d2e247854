package cli

import (
	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/viajeia/session"
	"github.com/viajeia/viajeia/pkg/api"
)

// favoritesCmd represents the favorites command
var favoritesCmd = &cobra.Command{
	Use:   "favorites [command]",
	Short: "Manage favorite destinations",
	Long: `List and save favorite destinations. Favorites are kept by the planning
service per session; the client always shows the list exactly as the server
returns it.

Available Commands:
  list  List your favorite destinations
  add   Save a destination as a favorite`,
}

// listFavoritesCmd represents the list subcommand
var listFavoritesCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List your favorite destinations",
	Long: `List the favorite destinations saved for your session.

Examples:
  # List favorites
  viajeia favorites list

  # List favorites in JSON format
  viajeia favorites list -j`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := session.NewStore().GetOrCreate()
		client := api.NewClient(GetConfig())

		resp, err := client.ListFavorites(cmd.Context(), sessionID)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]any{
				"result": 1,
				"value":  resp.Favorites,
			})
		} else {
			printFavorites(resp.Favorites)
		}
		return nil
	},
}

// addFavoriteCmd represents the add subcommand
var addFavoriteCmd = &cobra.Command{
	Use:   "add [DESTINO] [flags]",
	Short: "Save a destination as a favorite",
	Long: `Save a destination as a favorite. Without an argument the destination of
your most recent conversation turn is used, falling back to --destination.

Examples:
  # Save an explicit destination
  viajeia favorites add Paris

  # Save the destination from the --destination flag
  viajeia favorites add --destination Kyoto`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fallback := surveyDestination
		if len(args) == 1 {
			fallback = args[0]
		}

		p := newPlanner(cmd)
		favorites, err := p.SaveFavorite(cmd.Context(), fallback)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(map[string]any{
				"result": 1,
				"value":  favorites,
			})
		} else {
			okLabel.Println("Destino guardado en favoritos.")
			printFavorites(favorites)
		}
		return nil
	},
}

func init() {
	addFavoriteCmd.Flags().StringVar(&surveyDestination, "destination", "", "Destination to save when no argument is given")

	favoritesCmd.AddCommand(listFavoritesCmd)
	favoritesCmd.AddCommand(addFavoriteCmd)
	rootCmd.AddCommand(favoritesCmd)
}
