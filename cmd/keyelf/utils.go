package keyelf

import (
	"time"

	"github.com/redactyl/keyelf/internal/config"
)

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

// pickBool resolves a boolean flag. set reports whether the flag was given on
// the command line, so --flag=false can override a config that enables it.
func pickBool(cli, set bool, local, global *bool) bool {
	if set {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickDuration resolves the worker timeout: CLI > local > global.
func pickDuration(cli time.Duration, local, global config.FileConfig) (time.Duration, error) {
	if cli != 0 {
		return cli, nil
	}
	if d, err := local.TimeoutDuration(); err != nil || d != 0 {
		return d, err
	}
	return global.TimeoutDuration()
}
