package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tOgg1/emitline/internal/editor"
	"github.com/tOgg1/emitline/internal/models"
)

var addAtMs int64

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(cloneCmd)

	addCmd.Flags().Int64Var(&addAtMs, "at", 0, "start offset in milliseconds")
}

var addCmd = &cobra.Command{
	Use:   "add <set> <name>",
	Short: "Add an emission to a set",
	Long:  "Add an emission to a set. Use . for the current set.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, args[0], func(session *editor.Session) error {
			e, err := session.Add(args[1], addAtMs)
			if err != nil {
				return err
			}
			if IsJSONOutput() {
				return WriteOutput(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %d ms (row %d)\n", e.Name, e.StartOffsetMs, e.Position+1)
			PrintNextSteps(cmd.OutOrStdout(), HintContext{
				Action:       "emission_add",
				SetName:      session.Set().Name,
				EmissionName: e.Name,
			})
			return nil
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <set> <emission> <ms>",
	Short: "Change when an emission starts",
	Long:  "Change when an emission starts. The emission is an ID, a name or #row.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		offsetMs, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid offset %q: %w", args[2], err)
		}
		return withEmission(cmd, args[0], args[1], func(session *editor.Session, e *models.Emission) error {
			old := e.StartOffsetMs
			if err := session.SetOffset(e, offsetMs); err != nil {
				return err
			}
			if IsJSONOutput() {
				return WriteOutput(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s from %d to %d ms\n", e.Name, old, e.StartOffsetMs)
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <set> <emission> <name>",
	Short: "Rename an emission",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEmission(cmd, args[0], args[1], func(session *editor.Session, e *models.Emission) error {
			old := e.Name
			if err := session.Rename(e, args[2]); err != nil {
				return err
			}
			if IsJSONOutput() {
				return WriteOutput(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", old, e.Name)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <set> <emission>",
	Aliases: []string{"rm"},
	Short:   "Remove an emission",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEmission(cmd, args[0], args[1], func(session *editor.Session, e *models.Emission) error {
			if err := session.RemoveEmission(e); err != nil {
				return err
			}
			if IsJSONOutput() {
				return WriteOutput(cmd.OutOrStdout(), map[string]string{"removed": e.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", e.Name)
			return nil
		})
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone <set> <emission>",
	Short: "Duplicate an emission",
	Long:  "Duplicate an emission. The copy is inserted on the row below its source.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEmission(cmd, args[0], args[1], func(session *editor.Session, e *models.Emission) error {
			copied, err := session.CloneEmission(e)
			if err != nil {
				return err
			}
			if IsJSONOutput() {
				return WriteOutput(cmd.OutOrStdout(), copied)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s as %s (row %d)\n", e.Name, copied.Name, copied.Position+1)
			return nil
		})
	},
}

// withSession opens the store, resolves setRef and runs fn on an edit
// session over that set.
func withSession(cmd *cobra.Command, setRef string, fn func(*editor.Session) error) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	set, err := resolveSet(ctx, a.sets, setRef)
	if err != nil {
		return err
	}
	return fn(editor.NewSession(ctx, set, a.sets, a.publisher))
}

func withEmission(cmd *cobra.Command, setRef, emissionRef string, fn func(*editor.Session, *models.Emission) error) error {
	return withSession(cmd, setRef, func(session *editor.Session) error {
		e, err := resolveEmission(session.Set(), emissionRef)
		if err != nil {
			return err
		}
		return fn(session, e)
	})
}
