package keyelf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/redactyl/keyelf/internal/audit"
)

var (
	historyLog    string
	historyLimit  int
	historyDelete int
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded in the audit log",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&historyLog, "audit-log", "", "audit log to read (default from config audit_log)")
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "show at most this many runs, newest first (0 = all)")
	cmd.Flags().IntVar(&historyDelete, "delete", -1, "delete the run at this index and exit")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	path := historyLog
	if path == "" {
		lcfg, gcfg, err := loadConfigs()
		if err != nil {
			return err
		}
		path = pickString("", lcfg.AuditLog, gcfg.AuditLog)
	}
	if path == "" {
		return errors.New("no audit log configured; pass --audit-log or set audit_log")
	}
	log := audit.NewAuditLog(path)

	if historyDelete >= 0 {
		if err := log.DeleteRecord(historyDelete); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d from %s\n", historyDelete, path)
		return nil
	}

	records, err := log.LoadHistory()
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[:historyLimit]
	}
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return printHistory(cmd.OutOrStdout(), records)
}

func printHistory(w io.Writer, records []audit.RunRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "Time", "Target", "Mode", "Keys", "Files", "Failures", "Duration")
	for i, r := range records {
		failures := 0
		for _, n := range r.FailureCounts {
			failures += n
		}
		row := []string{
			strconv.Itoa(i),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Target,
			string(r.Mode),
			strconv.Itoa(r.UniqueKeys),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(failures),
			r.Duration,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
