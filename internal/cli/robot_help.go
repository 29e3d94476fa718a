package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(guideCmd)
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print a quick reference",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printGuide(cmd.OutOrStdout())
	},
}

func printGuide(w io.Writer) {
	if w == nil {
		return
	}

	// keep: concise; copy-pasteable commands; stable section names
	fmt.Fprint(w, `emitline quick reference

Quick Start
1) emitline set create intro
2) emitline add intro sparks --at 0
3) emitline add intro smoke --at 1500
4) emitline render intro
5) emitline open intro

Sets
- emitline set list | show | use | delete | history
- . names the current set: emitline add . glow --at 250

Emissions (by ID, name or #row)
- emitline move intro sparks 750
- emitline rename intro "#2" embers
- emitline clone intro sparks
- emitline remove intro sparks

Editor keys
- drag a block to reschedule it; drag the backdrop to pan
- wheel or +/- to zoom, right click or m for block actions
- tab/j/k select, [ ] { } nudge, enter commit, esc revert
- a add, c clone, x remove, r rename, t theme, ? help, q quit

Files
- emitline export intro intro.yaml
- emitline import intro.yaml --name "intro v2"

Automation / scripting
- add --json for machine output on most commands
`)
}
