package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/emitline/internal/db"
	"github.com/tOgg1/emitline/internal/models"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setCreateCmd)
	setCmd.AddCommand(setListCmd)
	setCmd.AddCommand(setShowCmd)
	setCmd.AddCommand(setDeleteCmd)
	setCmd.AddCommand(setUseCmd)
	setCmd.AddCommand(setHistoryCmd)

	setHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of events to show")
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage emission sets",
}

var setCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set := models.NewEmissionSet(args[0])
		if err := a.sets.Create(ctx, set); err != nil {
			return fmt.Errorf("failed to create set: %w", err)
		}
		a.publisher.Publish(ctx, models.NewSetEvent(models.EventTypeSetCreated, set))

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), set)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created set %s (%s)\n", set.Name, shortID(set.ID))
		PrintNextSteps(cmd.OutOrStdout(), HintContext{Action: "set_create", SetName: set.Name})
		return nil
	},
}

var setListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sets",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sets, err := a.sets.List(cmd.Context())
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			if sets == nil {
				sets = []*db.SetSummary{}
			}
			return WriteOutput(cmd.OutOrStdout(), sets)
		}
		if len(sets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sets. Create one with `emitline set create <name>`.")
			return nil
		}

		current, _ := contextStore().Load()
		rows := make([][]string, 0, len(sets))
		for _, s := range sets {
			marker := ""
			if current != nil && current.SetID == s.ID {
				marker = "*"
			}
			rows = append(rows, []string{
				marker,
				s.Name,
				shortID(s.ID),
				strconv.Itoa(s.Emissions),
				formatOffset(s.MaxOffsetMs),
				s.UpdatedAt.Local().Format(time.DateTime),
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"", "NAME", "ID", "EMISSIONS", "LAST START", "UPDATED"}, rows)
	},
}

var setShowCmd = &cobra.Command{
	Use:   "show [set]",
	Short: "Show the emissions of a set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := resolveSet(cmd.Context(), a.sets, optionalArg(args))
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), set)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n\n", set.Name, shortID(set.ID))
		if len(set.Emissions) == 0 {
			fmt.Fprintln(out, "No emissions.")
			return nil
		}
		rows := make([][]string, 0, len(set.Emissions))
		for i, e := range set.Emissions {
			rows = append(rows, []string{
				"#" + strconv.Itoa(i+1),
				e.Name,
				shortID(e.ID),
				strconv.FormatInt(e.StartOffsetMs, 10),
				formatOffset(e.StartOffsetMs),
			})
		}
		return writeTable(out, []string{"ROW", "NAME", "ID", "START MS", "START"}, rows)
	},
}

var setDeleteCmd = &cobra.Command{
	Use:     "delete <set>",
	Aliases: []string{"rm"},
	Short:   "Delete a set and its history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := resolveSet(ctx, a.sets, args[0])
		if err != nil {
			return err
		}
		if err := a.sets.Delete(ctx, set.ID); err != nil {
			return err
		}
		if _, err := a.history.DeleteBySet(ctx, set.ID); err != nil {
			return err
		}

		store := contextStore()
		if current, err := store.Load(); err == nil && current.SetID == set.ID {
			if err := store.Clear(); err != nil {
				return err
			}
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"deleted": set.ID})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted set %s\n", set.Name)
		PrintNextSteps(cmd.OutOrStdout(), HintContext{Action: "set_delete"})
		return nil
	},
}

var setUseCmd = &cobra.Command{
	Use:   "use <set>",
	Short: "Make a set the current set",
	Long:  "Make a set the current set. Commands that take an optional set use it when none is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := resolveSet(cmd.Context(), a.sets, args[0])
		if err != nil {
			return err
		}
		if err := rememberSet(set); err != nil {
			return err
		}
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"set_id": set.ID, "set_name": set.Name})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Current set: %s\n", set.Name)
		return nil
	},
}

var setHistoryCmd = &cobra.Command{
	Use:   "history [set]",
	Short: "Show the edit history of a set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := resolveSet(ctx, a.sets, optionalArg(args))
		if err != nil {
			return err
		}
		page, err := a.history.Query(ctx, db.EventQuery{SetID: set.ID, Limit: historyLimit})
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			events := page.Events
			if events == nil {
				events = []*models.Event{}
			}
			return WriteOutput(cmd.OutOrStdout(), events)
		}
		if len(page.Events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history.")
			return nil
		}

		rows := make([][]string, 0, len(page.Events))
		for _, event := range page.Events {
			rows = append(rows, []string{
				event.Timestamp.Local().Format(time.DateTime),
				string(event.Type),
				describeEvent(event),
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"TIME", "EVENT", "DETAIL"}, rows)
	},
}

// describeEvent summarises an event payload for the history table.
func describeEvent(event *models.Event) string {
	switch event.Type {
	case models.EventTypeEmissionModified:
		var p models.OffsetChangedPayload
		if json.Unmarshal(event.Payload, &p) == nil {
			return fmt.Sprintf("%s %d -> %d ms", p.Name, p.OldOffsetMs, p.NewOffsetMs)
		}
	case models.EventTypeEmissionRenamed:
		var p models.RenamedPayload
		if json.Unmarshal(event.Payload, &p) == nil {
			return fmt.Sprintf("%s -> %s", p.OldName, p.NewName)
		}
	case models.EventTypeEmissionAdded, models.EventTypeEmissionCloned, models.EventTypeEmissionRemoved:
		var p models.EmissionPayload
		if json.Unmarshal(event.Payload, &p) == nil {
			return fmt.Sprintf("%s at %d ms", p.Name, p.StartOffsetMs)
		}
	}
	return shortID(event.EntityID)
}
