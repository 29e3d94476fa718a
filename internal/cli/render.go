package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/emitline/internal/canvas"
	"github.com/tOgg1/emitline/internal/config"
	"github.com/tOgg1/emitline/internal/models"
	"github.com/tOgg1/emitline/internal/timeline"
)

var (
	renderCols  int
	renderRows  int
	renderScale float64
	renderPlain bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&renderCols, "cols", 100, "output width in columns")
	renderCmd.Flags().IntVar(&renderRows, "rows", 0, "output height in rows (default fits the set)")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 0, "pixels per second (default from config)")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "print without colour")
}

var renderCmd = &cobra.Command{
	Use:   "render [set]",
	Short: "Print a static view of a set's timeline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderCols <= 0 {
			return fmt.Errorf("--cols must be positive")
		}
		if renderRows < 0 {
			return fmt.Errorf("--rows must not be negative")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := resolveSet(cmd.Context(), a.sets, optionalArg(args))
		if err != nil {
			return err
		}

		cfg := GetConfig()
		zoom := renderZoom(cfg.Timeline, renderScale)

		frame := renderSet(set, zoom, renderCols, renderRows, cfg.TUI.CellWidthPx, cfg.TUI.CellHeightPx)
		lines := frame.Styled()
		if renderPlain || !hasTTY() {
			lines = frame.Plain()
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
		return nil
	},
}

// renderZoom starts from the configured scale. A positive override replaces
// it but still respects the configured floor.
func renderZoom(cfg config.TimelineConfig, override float64) *timeline.ZoomContext {
	zoom := timeline.NewZoomContext(cfg.InitialScale, timeline.WithMinScale(cfg.MinScale))
	if override > 0 {
		zoom.SetScale(override)
	}
	return zoom
}

// renderSet draws set on an offscreen scene. With rows 0 the frame is tall
// enough for every emission row.
func renderSet(set *models.EmissionSet, zoom *timeline.ZoomContext, cols, rows int, cellW, cellH float64) *canvas.Frame {
	if cellW <= 0 {
		cellW = canvas.DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = canvas.DefaultCellHeight
	}
	if rows == 0 {
		rows = timeline.RowsFor(len(set.Emissions), cellH)
	}

	scene := canvas.NewScene(float64(cols)*cellW, float64(rows)*cellH, canvas.WithCellSize(cellW, cellH))
	engine := timeline.New(zoom, timeline.Deps{})
	engine.Attach(scene)
	engine.SetSet(set)
	defer engine.Dispose()

	return scene.Rasterize(cols, rows)
}
