package cli

import (
	"fmt"
	"strings"

	"github.com/nbtree/nbtree/internal/config"
	"github.com/nbtree/nbtree/internal/history"
)

// HistoryOptions contains options for the history listing.
type HistoryOptions struct {
	Limit        int
	Action       string // only invocations of this action
	Counts       bool   // aggregate per-action usage counts instead
	OutputFormat string // text, json, yaml
}

// historyRow is the serializable view of one recorded invocation.
type historyRow struct {
	ID        int64  `json:"id" yaml:"id"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Action    string `json:"action" yaml:"action"`
	Chord     string `json:"chord,omitempty" yaml:"chord,omitempty"`
	Context   string `json:"context" yaml:"context"`
	Outcome   string `json:"outcome" yaml:"outcome"`
	Notebook  string `json:"notebook,omitempty" yaml:"notebook,omitempty"`
}

// countRow is the serializable view of one usage-count aggregate.
type countRow struct {
	Action string `json:"action" yaml:"action"`
	Count  int    `json:"count" yaml:"count"`
}

func historyRows(entries []history.Entry) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format("2006-01-02 15:04:05"),
			Action:    e.Action,
			Chord:     e.Chord,
			Context:   e.Context,
			Outcome:   e.Outcome,
			Notebook:  e.Notebook,
		})
	}
	return rows
}

func renderHistoryText(rows []historyRow) string {
	if len(rows) == 0 {
		return "No invocations recorded\n"
	}
	var sb strings.Builder
	for _, row := range rows {
		chord := row.Chord
		if chord == "" {
			chord = "-"
		}
		sb.WriteString(fmt.Sprintf("%5d  %s  %-28s %-10s %-8s %-11s %s\n",
			row.ID, row.Timestamp, row.Action, chord, row.Context, row.Outcome, row.Notebook))
	}
	return sb.String()
}

func renderCountsText(rows []countRow) string {
	if len(rows) == 0 {
		return "No invocations recorded\n"
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%6d  %s\n", row.Count, row.Action))
	}
	return sb.String()
}

// ShowHistory prints recorded action invocations, newest first, or the
// per-action usage counts when Counts is set.
func ShowHistory(opts HistoryOptions) error {
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer mgr.Close()

	if opts.Counts {
		counts, err := mgr.CountByAction()
		if err != nil {
			return err
		}
		rows := make([]countRow, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, countRow{Action: c.Action, Count: c.Count})
		}
		return printRows(rows, renderCountsText(rows), opts.OutputFormat)
	}

	var entries []history.Entry
	if opts.Action != "" {
		entries, err = mgr.ForAction(opts.Action, opts.Limit)
	} else {
		entries, err = mgr.Recent(opts.Limit)
	}
	if err != nil {
		return err
	}

	rows := historyRows(entries)
	return printRows(rows, renderHistoryText(rows), opts.OutputFormat)
}

func printRows(rows any, text, format string) error {
	switch format {
	case "", "text":
		fmt.Print(text)
		return nil
	default:
		out, err := marshalAs(rows, format)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
}

// ClearHistory deletes every recorded invocation after a confirmation
// prompt. force skips the prompt; without it a non-interactive run refuses.
func ClearHistory(force bool) error {
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer mgr.Close()

	n, err := mgr.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("History is already empty")
		return nil
	}

	if !force {
		if !isInteractive() {
			return fmt.Errorf("refusing to clear history without confirmation (use --yes)")
		}
		fmt.Printf("Delete all %d recorded invocations? [y/N]: ", n)

		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			return fmt.Errorf("clear cancelled by user")
		}
	}

	if err := mgr.Clear(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d invocations\n", n)
	return nil
}
