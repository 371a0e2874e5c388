//go:build !unix

package chunk

import (
	"errors"
	"os"
)

var errNoMap = errors.New("memory mapping not supported on this platform")

func mapFile(*os.File, int64) ([]byte, func() error, error) {
	return nil, nil, errNoMap
}
