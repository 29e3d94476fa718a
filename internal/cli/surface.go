package cli

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.AddCommand(commandsCmd)
}

var commandsCmd = &cobra.Command{
	Use:    "commands",
	Short:  "Print the command tree as JSON",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := CommandSurfaceJSON()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

// SurfaceCommand represents one command in the CLI surface manifest.
type SurfaceCommand struct {
	Name        string           `json:"name"`
	Aliases     []string         `json:"aliases,omitempty"`
	Short       string           `json:"short"`
	Flags       []SurfaceFlag    `json:"flags,omitempty"`
	Subcommands []SurfaceCommand `json:"subcommands,omitempty"`
}

// SurfaceFlag represents a flag in the CLI surface manifest.
type SurfaceFlag struct {
	Long    string `json:"long"`
	Short   string `json:"short,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

// SurfaceManifest is the top-level structure for the command surface.
type SurfaceManifest struct {
	CLI         string           `json:"cli"`
	Version     string           `json:"version"`
	GlobalFlags []SurfaceFlag    `json:"global_flags"`
	Commands    []SurfaceCommand `json:"commands"`
}

// CommandSurfaceJSON returns a JSON-encoded manifest of every visible
// command, subcommand, flag and alias.
func CommandSurfaceJSON() ([]byte, error) {
	manifest := SurfaceManifest{
		CLI:         "emitline",
		Version:     version,
		GlobalFlags: extractFlags(rootCmd.PersistentFlags()),
		Commands:    extractSubcommands(rootCmd),
	}
	return json.MarshalIndent(manifest, "", "  ")
}

func extractSubcommands(cmd *cobra.Command) []SurfaceCommand {
	var cmds []SurfaceCommand
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" {
			continue
		}
		cmds = append(cmds, SurfaceCommand{
			Name:        c.Name(),
			Aliases:     c.Aliases,
			Short:       c.Short,
			Flags:       extractFlags(c.LocalNonPersistentFlags()),
			Subcommands: extractSubcommands(c),
		})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

func extractFlags(fs *pflag.FlagSet) []SurfaceFlag {
	var flags []SurfaceFlag
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		flags = append(flags, SurfaceFlag{
			Long:    f.Name,
			Short:   f.Shorthand,
			Type:    flagTypeName(f.Value.Type()),
			Default: f.DefValue,
		})
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}

func flagTypeName(t string) string {
	switch strings.ToLower(t) {
	case "stringslice":
		return "stringSlice"
	default:
		return t
	}
}
