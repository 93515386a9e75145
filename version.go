package tong

import (
	"fmt"
	"strconv"
	"time"
)

// Set at build time via -ldflags "-X ...".
var (
	Version   = "0.1.0"
	GitHash   = "unknown"
	BuildUnix = "0"
)

// VersionString is the single-line version banner.
func VersionString() string {
	return fmt.Sprintf("tong %s (%s)", Version, GitHash)
}

// BuildReport is the multi-line output of the version subcommand.
func BuildReport() string {
	return fmt.Sprintf("tong %s\ncommit: %s\nbuilt:  %s", Version, GitHash, buildTime())
}

func buildTime() string {
	sec, err := strconv.ParseInt(BuildUnix, 10, 64)
	if err != nil || sec == 0 {
		return "unknown"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
