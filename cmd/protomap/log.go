package main

import (
	"os"

	"github.com/signadot/protomap/config"
)

// theLog is replaced once the settings file is loaded.
var theLog = config.DefaultConfig().Logger(os.Stderr)
