package application

import (
	"os"

	"at_deals/pkg/contextx"
)

var (
	logger    = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
	logWriter = os.Stdout                           //nolint:gochecknoglobals
)
