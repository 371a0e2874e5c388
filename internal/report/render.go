package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/redactyl/keyelf/internal/types"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const ruleWidth = 60

type PrintOptions struct {
	NoColor bool
	// Mask hides most of every key string, for screenshots and shared logs.
	Mask bool
}

func (o PrintOptions) tag(style lipgloss.Style, s string) string {
	if o.NoColor {
		return s
	}
	return style.Render(s)
}

func (o PrintOptions) secret(s string) string {
	if o.Mask {
		return maskValue(s)
	}
	return s
}

// PrintBanner announces the target and where keys are saved.
func PrintBanner(w io.Writer, target, outputPath string, opts PrintOptions) {
	rule := opts.tag(ruleStyle, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s keyelf - analyzing target: %s\n", opts.tag(okStyle, "[ok]"), target)
	if outputPath != "" {
		fmt.Fprintf(w, "%s hexadecimal keys will be saved to: %s\n", opts.tag(okStyle, "[ok]"), outputPath)
	}
	fmt.Fprintln(w, rule)
}

// PrintKey renders one newly discovered key as it arrives.
func PrintKey(w io.Writer, fk types.FoundKey, opts PrintOptions) {
	if fk.Source != "" {
		fmt.Fprintf(w, "%s New private key found (source: %s)\n", opts.tag(keyStyle, "[+1]"), fk.Source)
	} else {
		fmt.Fprintf(w, "%s New private key found\n", opts.tag(keyStyle, "[+1]"))
	}
	fmt.Fprintf(w, "     - WIF (uncompressed): %s\n", opts.secret(fk.WIFUncompressed))
	fmt.Fprintf(w, "     - WIF (compressed)  : %s\n", opts.secret(fk.WIFCompressed))
	if fk.AddressCompressed != "" {
		fmt.Fprintf(w, "     - address (compressed)  : %s\n", fk.AddressCompressed)
		fmt.Fprintf(w, "     - address (uncompressed): %s\n", fk.AddressUncompressed)
	}
}

// PrintSummary writes the end-of-run summary: key count, failed targets as
// a table and any warnings.
func PrintSummary(w io.Writer, rep types.Report, opts PrintOptions) {
	ok := opts.tag(okStyle, "[ok]")
	warn := opts.tag(warnStyle, "[!]")
	rule := opts.tag(ruleStyle, strings.Repeat("-", ruleWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	if rep.Interrupted {
		fmt.Fprintf(w, "%s Scan interrupted; results below are partial.\n", warn)
	} else {
		fmt.Fprintf(w, "%s Scan complete.\n", ok)
	}
	if n := rep.UniqueKeys(); n > 0 {
		fmt.Fprintf(w, "%s Summary: found %d unique private keys.\n", ok, n)
		if rep.OutputPath != "" {
			fmt.Fprintf(w, "%s All hexadecimal private keys have been saved to %s.\n", ok, rep.OutputPath)
		}
	} else {
		fmt.Fprintf(w, "%s Summary: no private keys matching the marker were found.\n", ok)
	}
	fmt.Fprintf(w, "Files scanned: %d  Bytes scanned: %d  Duration: %.2fs\n",
		rep.FilesScanned, rep.BytesScanned, rep.Duration.Seconds())
	if rep.SinkErrors > 0 {
		fmt.Fprintf(w, "%s %d keys could not be written to %s\n", warn, rep.SinkErrors, rep.OutputPath)
	}

	if len(rep.Failures) > 0 {
		fmt.Fprintf(w, "\n%s %d targets caused issues during the scan:\n", warn, len(rep.Failures))
		_ = PrintFailures(w, rep.Failures)
	}
	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "\n%s warnings:\n", warn)
		for _, msg := range rep.Warnings {
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
	fmt.Fprintln(w, rule)
}

// PrintFailures renders failed targets as a table.
func PrintFailures(w io.Writer, failures []types.Failure) error {
	table := tablewriter.NewWriter(w)
	table.Header("Path", "Reason", "Exit", "Detail")
	for _, f := range failures {
		exit := ""
		if f.Reason == types.ReasonCrashed {
			exit = strconv.Itoa(f.ExitCode)
		}
		if err := table.Append([]string{f.Path, string(f.Reason), exit, f.Detail}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintKeysTable lists keys one per row.
func PrintKeysTable(w io.Writer, keys []types.FoundKey, opts PrintOptions) error {
	if len(keys) == 0 {
		fmt.Fprintln(w, "No private keys found")
		return nil
	}
	withAddr := false
	for _, k := range keys {
		if k.AddressCompressed != "" {
			withAddr = true
			break
		}
	}
	table := tablewriter.NewWriter(w)
	if withAddr {
		table.Header("Source", "WIF Compressed", "WIF Uncompressed", "Address")
	} else {
		table.Header("Source", "WIF Compressed", "WIF Uncompressed")
	}
	for _, k := range keys {
		row := []string{k.Source, opts.secret(k.WIFCompressed), opts.secret(k.WIFUncompressed)}
		if withAddr {
			row = append(row, k.AddressCompressed)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
