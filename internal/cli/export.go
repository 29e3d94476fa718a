package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tOgg1/emitline/internal/models"
)

const documentVersion = 1

var importName string

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importName, "name", "", "name for the imported set (default from the file)")
}

// setDocument is the portable YAML form of a set. IDs are not exported;
// importing always creates fresh ones.
type setDocument struct {
	Version   int                `yaml:"version"`
	Name      string             `yaml:"name"`
	Emissions []emissionDocument `yaml:"emissions"`
}

type emissionDocument struct {
	Name          string `yaml:"name"`
	StartOffsetMs int64  `yaml:"start_offset_ms"`
}

var exportCmd = &cobra.Command{
	Use:   "export [set] [file]",
	Short: "Write a set to a YAML file",
	Long:  "Write a set to a YAML file. Without a file, or with -, the document goes to stdout.",
	Args:  cobra.MaximumNArgs(2),
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
		data, err := encodeSet(set)
		if err != nil {
			return err
		}

		path := "-"
		if len(args) == 2 {
			path = args[1]
		}
		if path == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]any{"set_id": set.ID, "path": path, "emissions": len(set.Emissions)})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d emissions) to %s\n", set.Name, len(set.Emissions), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a set from a YAML file",
	Long:  "Create a set from a YAML file written by export. Use - to read stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		set, err := decodeSet(data, importName)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.sets.Create(ctx, set); err != nil {
			return fmt.Errorf("failed to import set: %w", err)
		}
		a.publisher.Publish(ctx, models.NewSetEvent(models.EventTypeSetImported, set))

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), set)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d emissions)\n", set.Name, len(set.Emissions))
		PrintNextSteps(cmd.OutOrStdout(), HintContext{Action: "set_import", SetName: set.Name})
		return nil
	},
}

func encodeSet(set *models.EmissionSet) ([]byte, error) {
	doc := setDocument{
		Version:   documentVersion,
		Name:      set.Name,
		Emissions: make([]emissionDocument, 0, len(set.Emissions)),
	}
	for _, e := range set.Emissions {
		doc.Emissions = append(doc.Emissions, emissionDocument{Name: e.Name, StartOffsetMs: e.StartOffsetMs})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode set: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeSet parses a set document into a new set. name, when given,
// replaces the document name.
func decodeSet(data []byte, name string) (*models.EmissionSet, error) {
	var doc setDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse set document: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("unsupported set document version %d", doc.Version)
	}
	if name != "" {
		doc.Name = name
	}

	set := models.NewEmissionSet(doc.Name)
	for _, e := range doc.Emissions {
		if _, err := set.Append(e.Name, e.StartOffsetMs); err != nil {
			return nil, fmt.Errorf("emission %d: %w", len(set.Emissions)+1, err)
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
