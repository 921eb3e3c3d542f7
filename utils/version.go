package utils

import "time"

// Set at build time with -ldflags "-X github.com/netbeacon/azvnet/utils.version=..."
var (
	version = "0.1.0"
	commit  = "none"
)

// GetVersion returns the azvnet version
func GetVersion() string {
	return version
}

// GetCommit returns the commit the binary was built from
func GetCommit() string {
	return commit
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
