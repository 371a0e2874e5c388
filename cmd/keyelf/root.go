package keyelf

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagWorkerScan string
	flagOutput     string
	flagChunkSize  int
	flagTimeout    time.Duration
	flagInclude    string
	flagExclude    string
	flagAddresses  bool
	flagNoMmap     bool
	flagCache      bool
	flagCachePath  string
	flagAuditLog   string
	flagJSON       bool
	flagSARIF      bool
	flagTable      bool
	flagMask       bool
	flagNoColor    bool
	flagQuiet      bool
	flagLogLevel   string

	version = "0.1.0"
)

// exitError carries a process status through cobra without printing it as a
// usage error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// rootCmd is the base Cobra command for the keyelf CLI.
var rootCmd = &cobra.Command{
	Use:   "keyelf [flags] <target>",
	Short: "Recover raw private keys from files, disk images and devices",
	Long: "keyelf scans a file, a raw block device or every file under a directory for\n" +
		"DER-marked secp256k1 private keys and prints them in Wallet Import Format.\n" +
		"Directory entries are each scanned in a separate worker process so a file\n" +
		"that crashes or hangs the reader is skipped instead of ending the run.",
	Example: "  keyelf ./wallets/\n  sudo keyelf /dev/sdd2\n  keyelf --json --addresses disk.img",
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagWorkerScan != "" {
			return runWorker(flagWorkerScan)
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return errors.New("a target path must be provided")
		}
		return runScan(cmd, args[0])
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the keyelf CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.err != nil {
				fmt.Fprintln(os.Stderr, "error:", ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagWorkerScan, "worker-scan", "", "scan one file and print result lines (internal)")
	_ = f.MarkHidden("worker-scan")

	f.StringVarP(&flagOutput, "output", "o", "", "append discovered hex keys to this file (default found_hex_keys.txt)")
	f.IntVar(&flagChunkSize, "chunk-size", 0, "sequential read window in bytes (default 64 MiB)")
	f.DurationVar(&flagTimeout, "timeout", 0, "per-file worker timeout for directory scans (default 5m)")
	f.StringVar(&flagInclude, "include", "", "comma-separated include globs for directory scans")
	f.StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs for directory scans")
	f.BoolVar(&flagAddresses, "addresses", false, "derive P2PKH addresses for discovered keys")
	f.BoolVar(&flagNoMmap, "no-mmap", false, "read files sequentially instead of memory-mapping them")
	f.BoolVar(&flagCache, "cache", false, "reuse results for unchanged files of a previous directory scan")
	f.StringVar(&flagCachePath, "cache-path", "", "result cache location (default in the user cache dir)")
	f.StringVar(&flagAuditLog, "audit-log", "", "append a JSONL run record to this file")
	f.BoolVar(&flagTable, "table", false, "print discovered keys as a table after the scan")
	f.BoolVar(&flagMask, "mask", false, "mask WIF strings in terminal output")

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "emit JSON")
	pf.BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "diagnostic log level: debug|info|warn|error (default warn)")
}
