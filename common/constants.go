package common

import (
	"time"
)

const DefaultClientTimeout = time.Minute

// Version is the cli version, overridden at build time with
// -ldflags "-X github.com/twitter/conduct/common.Version=..."
var Version = "0.1.0-dev"
