package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tOgg1/emitline/internal/db"
	"github.com/tOgg1/emitline/internal/logging"
	"github.com/tOgg1/emitline/internal/models"
)

var (
	watchInterval time.Duration
	watchSince    time.Duration
	watchAll      bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "poll interval")
	watchCmd.Flags().DurationVar(&watchSince, "since", 0, "replay events from this long ago")
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "watch every set")
}

var watchCmd = &cobra.Command{
	Use:   "watch [set]",
	Short: "Stream edit history as JSON lines",
	Long:  "Stream the edit history of a set as JSON lines while other emitline processes change it. Stops on Ctrl+C.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		config := DefaultStreamConfig()
		config.PollInterval = watchInterval
		if !watchAll {
			set, err := resolveSet(ctx, a.sets, optionalArg(args))
			if err != nil {
				return err
			}
			config.SetID = set.ID
		}
		if watchSince > 0 {
			since := time.Now().UTC().Add(-watchSince)
			config.Since = &since
			config.IncludeExisting = true
		}

		return NewEventStreamer(a.history, cmd.OutOrStdout(), config).Stream(ctx)
	},
}

// StreamConfig configures event streaming behavior.
type StreamConfig struct {
	// PollInterval is how often to check for new events.
	PollInterval time.Duration

	// SetID limits the stream to one set (empty = all).
	SetID string

	// EventTypes filters to specific event types (nil = all).
	EventTypes []models.EventType

	// Since streams events after this timestamp.
	Since *time.Time

	// IncludeExisting includes events before streaming starts.
	IncludeExisting bool

	// BatchSize is the max events per poll.
	BatchSize int
}

// DefaultStreamConfig returns sensible defaults for streaming.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 500 * time.Millisecond,
		BatchSize:    100,
	}
}

// EventStreamer streams history events to an output writer in JSONL format.
type EventStreamer struct {
	repo   *db.EventRepository
	out    io.Writer
	config StreamConfig
	logger zerolog.Logger

	cursor string
	since  *time.Time
}

// NewEventStreamer creates a new event streamer.
func NewEventStreamer(repo *db.EventRepository, out io.Writer, config StreamConfig) *EventStreamer {
	if config.PollInterval <= 0 {
		config.PollInterval = 500 * time.Millisecond
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	s := &EventStreamer{
		repo:   repo,
		out:    out,
		config: config,
		logger: logging.Component("watch"),
	}
	if config.IncludeExisting {
		s.since = config.Since
	} else {
		now := time.Now().UTC()
		s.since = &now
	}
	return s
}

// Stream writes events until ctx is cancelled. Cancellation is a clean stop.
func (s *EventStreamer) Stream(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.config.PollInterval).Str("set", s.config.SetID).Msg("streaming events")

	for {
		if err := s.drain(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// drain writes every event currently available, one batch at a time.
func (s *EventStreamer) drain(ctx context.Context) error {
	for {
		events, more, err := s.poll(ctx)
		if err != nil {
			return fmt.Errorf("failed to poll events: %w", err)
		}
		for _, event := range events {
			if err := s.writeEvent(event); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
		if !more {
			return nil
		}
	}
}

// poll fetches the batch after the last event seen and advances the cursor.
// more reports whether further events are already waiting.
func (s *EventStreamer) poll(ctx context.Context) (events []*models.Event, more bool, err error) {
	query := db.EventQuery{
		SetID:  s.config.SetID,
		Cursor: s.cursor,
		Limit:  s.config.BatchSize,
	}
	if s.cursor == "" {
		query.Since = s.since
	}
	if len(s.config.EventTypes) == 1 {
		query.Type = &s.config.EventTypes[0]
	}

	page, err := s.repo.Query(ctx, query)
	if err != nil {
		return nil, false, err
	}
	more = page.NextCursor != ""
	if n := len(page.Events); n > 0 {
		s.cursor = page.Events[n-1].ID
	}

	if len(s.config.EventTypes) <= 1 {
		return page.Events, more, nil
	}
	wanted := make(map[models.EventType]bool, len(s.config.EventTypes))
	for _, t := range s.config.EventTypes {
		wanted[t] = true
	}
	for _, e := range page.Events {
		if wanted[e.Type] {
			events = append(events, e)
		}
	}
	return events, more, nil
}

// writeEvent writes a single event as JSONL.
func (s *EventStreamer) writeEvent(event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, string(data))
	return err
}
