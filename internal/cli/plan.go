package cli

import (
	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/viajeia/survey"
)

var (
	surveyDestination string
	surveyDate        string
	surveyBudget      string
	surveyStyle       string
)

// surveyFromFlags builds the survey context from the trip-preference flags.
func surveyFromFlags() survey.Context {
	return survey.Context{
		Destination: surveyDestination,
		Date:        surveyDate,
		Budget:      surveyBudget,
		Style:       survey.Style(surveyStyle),
	}
}

// addSurveyFlags registers the trip-preference flags on a command.
func addSurveyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&surveyDestination, "destination", "", "Desired destination (e.g., Paris)")
	cmd.Flags().StringVar(&surveyDate, "date", "", "Approximate travel dates (free text)")
	cmd.Flags().StringVar(&surveyBudget, "budget", "", "Estimated budget (e.g., \"USD 1500\")")
	cmd.Flags().StringVar(&surveyStyle, "style", "", "Preferred style: adventure, relaxation or culture")
}

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan QUESTION [flags]",
	Short: "Ask the travel assistant for a plan",
	Long: `Ask the travel assistant for a plan. The trip-preference flags and the
question are combined into a single request; the answer comes back with
destination photos, an insights panel, and the updated conversation history.

Examples:
  # Ask with full trip preferences
  viajeia plan "5 days in summer" --destination Paris --budget "USD 1500" --style adventure

  # Ask with just a question
  viajeia plan "¿a dónde puedo ir con poco presupuesto?"

  # Machine-readable output
  viajeia plan "5 days in summer" --destination Paris -j`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPlanner(cmd)
		if err := p.SubmitPlan(cmd.Context(), surveyFromFlags(), args[0]); err != nil {
			return err
		}
		printPlanView(p.Snapshot())
		return nil
	},
}

func init() {
	addSurveyFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}
