package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voyagerhq/voyager/internal/profile"
	"github.com/voyagerhq/voyager/internal/version"
	"github.com/voyagerhq/voyager/store"
	"github.com/voyagerhq/voyager/travel"
	"github.com/voyagerhq/voyager/travel/export"
	"github.com/voyagerhq/voyager/travel/model"
	"github.com/voyagerhq/voyager/travel/orchestrator"
)

var rootCmd = &cobra.Command{
	Use:   "voyager [trip description]",
	Short: `An AI travel planner. Describe your trip, answer a few questions, and get a refined day-by-day itinerary.`,
	Args:  cobra.ArbitraryArgs,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Ignore a missing .env; environment variables still apply.
		_ = godotenv.Load()
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		instanceProfile := &profile.Profile{
			Mode:      viper.GetString("mode"),
			Data:      viper.GetString("data"),
			OutputDir: viper.GetString("output-dir"),
			Version:   version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		return runPlan(instanceProfile, strings.Join(args, " "))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetCurrentVersion(viper.GetString("mode")))
	},
}

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List recently planned trips",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode: viper.GetString("mode"),
			Data: viper.GetString("data"),
		}
		instanceProfile.FromEnv()
		if instanceProfile.Data == "" {
			instanceProfile.Data = "."
		}

		snapshots, err := openStoreAndList(instanceProfile.Data)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No saved trips yet.")
			return nil
		}
		for _, snap := range snapshots {
			fmt.Printf("%s  %s  %s (%s)\n", snap.CreatedAt.Format("2006-01-02 15:04"), snap.ID, snap.Title, snap.Destination)
		}
		return nil
	},
}

func openStoreAndList(dataDir string) ([]store.Snapshot, error) {
	st, err := store.Open(dataDir)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.ListRecent(context.Background(), 20)
}

func init() {
	viper.SetDefault("mode", "dev")

	rootCmd.PersistentFlags().String("mode", "dev", `mode, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("data", "", "data directory for saved trips")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "output", "directory for exported itineraries")

	for _, flag := range []string{"mode", "data", "output-dir"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("voyager")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(versionCmd, tripsCmd)
}

func runPlan(p *profile.Profile, query string) error {
	router, err := travel.NewRouter(p)
	if err != nil {
		return err
	}

	orch := orchestrator.New(router,
		orchestrator.WithDataSources(travel.NewDataSources(p)),
		orchestrator.WithProgress(func(agent, status string) {
			fmt.Printf("  [%s] %s\n", agent, status)
		}),
	)

	reader := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	if query == "" {
		fmt.Print("Where do you want to travel? ")
		if !reader.Scan() {
			return nil
		}
		query = strings.TrimSpace(reader.Text())
	}
	if query == "" {
		return fmt.Errorf("please provide a trip description")
	}

	conversation, err := gatherLoop(ctx, orch, reader, query)
	if err != nil || conversation == nil {
		return err
	}

	fmt.Println()
	itinerary, err := orch.PlanTrip(ctx, conversation)
	if err != nil {
		return fmt.Errorf("failed to plan trip: %w", err)
	}

	fmt.Println()
	fmt.Println(export.RenderMarkdown(itinerary))
	saveOutputs(ctx, p, itinerary)

	return refinementLoop(ctx, p, orch, reader, itinerary)
}

// gatherLoop runs the conversational intake until the planner signals
// readiness. Returns nil when the user cancels.
func gatherLoop(ctx context.Context, orch *orchestrator.Orchestrator, reader *bufio.Scanner, query string) (model.Conversation, error) {
	conversation := model.Conversation{}.Append(model.RoleUser, query)

	for {
		result, err := orch.GatherDetails(ctx, conversation)
		if err != nil {
			return nil, err
		}
		fmt.Printf("\n%s\n", result.Message)
		conversation = conversation.Append(model.RoleAssistant, result.Message)

		if result.Ready {
			return conversation, nil
		}

		fmt.Print("\n> ")
		if !reader.Scan() {
			return nil, nil
		}
		reply := strings.TrimSpace(reader.Text())
		if reply == "" {
			continue
		}
		if isQuit(reply) {
			fmt.Println("Cancelled.")
			return nil, nil
		}
		conversation = conversation.Append(model.RoleUser, reply)
	}
}

// refinementLoop lets the user iterate on the itinerary until "done".
func refinementLoop(ctx context.Context, p *profile.Profile, orch *orchestrator.Orchestrator, reader *bufio.Scanner, itinerary *model.Itinerary) error {
	session := orchestrator.NewRefinementSession(orch, itinerary)

	fmt.Println()
	fmt.Println("Want to modify the itinerary? Type your changes below, or ask for alternatives.")
	fmt.Println("Commands: 'done' to finish, 'save' to re-export, 'show' to redisplay")

	for {
		fmt.Print("\n> ")
		if !reader.Scan() {
			break
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		if isQuit(input) || strings.EqualFold(input, "done") {
			fmt.Println("Goodbye!")
			break
		}

		switch strings.ToLower(input) {
		case "save":
			saveOutputs(ctx, p, session.Itinerary())
			continue
		case "show":
			fmt.Println(export.RenderMarkdown(session.Itinerary()))
			continue
		}

		reply, err := session.Handle(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(reply.Message)
		if reply.Suggestions != nil {
			printSuggestions(reply.Suggestions)
		}
		if reply.Updated {
			fmt.Println(export.RenderMarkdown(session.Itinerary()))
			saveOutputs(ctx, p, session.Itinerary())
		}
	}
	return nil
}

func printSuggestions(set *model.SuggestionSet) {
	fmt.Printf("\nAlternatives for: %s\n\n", set.TargetDescription)
	for _, s := range set.Suggestions {
		cost := ""
		if s.EstimatedCostUSD > 0 {
			cost = fmt.Sprintf(" (~$%.0f)", s.EstimatedCostUSD)
		}
		fmt.Printf("  %d. %s%s\n     %s\n\n", s.ID, s.Name, cost, s.Description)
	}
	fmt.Println("Pick 1-3, 'more' for new suggestions, or 'skip' to cancel")
}

// saveOutputs exports markdown and HTML and records a snapshot. Export
// problems are reported but never abort the session.
func saveOutputs(ctx context.Context, p *profile.Profile, itinerary *model.Itinerary) {
	if mdPath, err := export.Markdown(itinerary, p.OutputDir); err != nil {
		slog.Error("export markdown failed", "error", err)
	} else {
		fmt.Printf("Itinerary saved to: %s\n", mdPath)
	}
	if htmlPath, err := export.HTML(itinerary, p.OutputDir); err != nil {
		slog.Error("export html failed", "error", err)
	} else {
		fmt.Printf("HTML saved to: %s\n", htmlPath)
	}

	st, err := store.Open(p.Data)
	if err != nil {
		slog.Error("open snapshot store failed", "error", err)
		return
	}
	defer st.Close()
	if _, err := st.Save(ctx, itinerary); err != nil {
		slog.Error("save snapshot failed", "error", err)
	}
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
