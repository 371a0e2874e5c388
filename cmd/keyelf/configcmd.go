package keyelf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redactyl/keyelf/internal/chunk"
	"github.com/redactyl/keyelf/internal/config"
	"github.com/redactyl/keyelf/internal/dedup"
	"github.com/redactyl/keyelf/internal/engine"
)

var (
	cfgOutput    string
	cfgGlobal    bool
	cfgForce     bool
	cfgChunkSize int
	cfgTimeout   time.Duration
	cfgKeysFile  string
	cfgAddresses bool
	cfgNoColor   bool
	cfgLogLevel  string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .keyelf.yml with the given options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "config file path")
	initCmd.Flags().BoolVar(&cfgGlobal, "global", false, "write the global config instead of a local one")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().IntVar(&cfgChunkSize, "chunk-size", chunk.DefaultSize, "sequential read window in bytes")
	initCmd.Flags().DurationVar(&cfgTimeout, "timeout", engine.DefaultTimeout, "per-file worker timeout")
	initCmd.Flags().StringVar(&cfgKeysFile, "keys-file", dedup.DefaultOutput, "file discovered hex keys are appended to")
	initCmd.Flags().BoolVar(&cfgAddresses, "addresses", false, "derive P2PKH addresses by default")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().StringVar(&cfgLogLevel, "log-level", "warn", "diagnostic log level")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the global config location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.GlobalPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cfgCmd.AddCommand(pathCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	fc := config.FileConfig{
		ChunkSize: intPtr(cfgChunkSize),
		Timeout:   strPtr(cfgTimeout.String()),
		Output:    optStrPtr(cfgKeysFile),
		Addresses: boolPtr(cfgAddresses),
		NoColor:   boolPtr(cfgNoColor),
		LogLevel:  optStrPtr(cfgLogLevel),
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	dest := cfgOutput
	if cfgGlobal {
		p, err := config.GlobalPath()
		if err != nil {
			return err
		}
		dest = p
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
	}
	if _, err := os.Stat(dest); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", dest)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func boolPtr(v bool) *bool { return &v }
