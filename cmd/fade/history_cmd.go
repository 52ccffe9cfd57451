package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fentz26/fade/internal/models"
	"github.com/fentz26/fade/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyTodo  string
	historyKinds []string
	historyLimit int
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the lifecycle journal",
	Long: `Lists journal events newest first. The journal is an audit trail only;
todos are never restored from it.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyTodo, "todo", "", "Only show events for this todo id")
	historyCmd.Flags().StringSliceVar(&historyKinds, "kind", nil, "Only show these kinds (added, completed, faded, expired)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum events to show (0 for all)")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete events older than this age instead of listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.Journal.Enabled {
		return errors.New("journal is disabled (journal.enabled = false)")
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", historyLimit)
	}

	s, err := store.New(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if historyPrune > 0 {
		cutoff := time.Now().Add(-historyPrune)
		n, err := s.PruneEvents(ctx, cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d events recorded before %s\n", n, cutoff.Format(time.RFC3339))
		return nil
	}

	filter := store.EventFilter{TodoID: historyTodo, Limit: historyLimit}
	for _, k := range historyKinds {
		kind := models.EventKind(strings.ToLower(strings.TrimSpace(k)))
		switch kind {
		case models.EventAdded, models.EventCompleted, models.EventFaded, models.EventExpired:
			filter.Kinds = append(filter.Kinds, kind)
		default:
			return fmt.Errorf("unknown event kind %q", k)
		}
	}

	events, err := s.ListEvents(ctx, filter)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No events recorded.")
		return nil
	}

	total, err := s.CountEvents(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tTODO\tTEXT")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(e.At), e.Kind, shortID(e.TodoID), e.Text)
	}
	w.Flush()

	if total > len(events) {
		fmt.Fprintf(out, "\nShowing %d of %s events\n", len(events), humanize.Comma(int64(total)))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
