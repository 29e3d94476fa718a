package cli

import (
	"fmt"
	"io"
)

// HintContext provides context for generating relevant next steps.
type HintContext struct {
	// Action is the command that was executed (e.g., "set_create", "add").
	Action string

	// SetName is the set involved (if any).
	SetName string

	// EmissionName is the emission involved (if any).
	EmissionName string
}

// PrintNextSteps prints contextual next steps after a successful command.
// Does nothing if JSON output is enabled.
func PrintNextSteps(out io.Writer, ctx HintContext) {
	if IsJSONOutput() {
		return
	}

	hints := generateHints(ctx)
	if len(hints) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	for _, hint := range hints {
		fmt.Fprintf(out, "  %s\n", hint)
	}
}

func generateHints(ctx HintContext) []string {
	switch ctx.Action {
	case "set_create", "set_import":
		return hintsForNewSet(ctx)
	case "emission_add":
		return hintsForEmissionAdd(ctx)
	case "set_delete":
		return []string{
			"emitline set list                   # List remaining sets",
		}
	default:
		return nil
	}
}

func hintsForNewSet(ctx HintContext) []string {
	name := quoteArg(ctx.SetName)
	return []string{
		fmt.Sprintf("emitline add %s \"sparks\" --at 0      # Add an emission", name),
		fmt.Sprintf("emitline open %s                   # Edit on the timeline", name),
		"emitline set list                   # List all sets",
	}
}

func hintsForEmissionAdd(ctx HintContext) []string {
	name := quoteArg(ctx.SetName)
	return []string{
		fmt.Sprintf("emitline render %s                 # Preview the timeline", name),
		fmt.Sprintf("emitline move %s %s <ms>        # Reschedule it", name, quoteArg(ctx.EmissionName)),
	}
}

func quoteArg(s string) string {
	for _, r := range s {
		if r == ' ' || r == '"' || r == '\'' {
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}
