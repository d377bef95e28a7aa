package flags

import "github.com/urfave/cli/v2"

const (
	WorldCategory   = "WORLD"
	KeyCategory     = "LEGACY KEYS"
	LoggingCategory = "LOGGING AND DEBUGGING"
	MetricsCategory = "METRICS AND STATS"
	MiscCategory    = "MISC"
)

func init() {
	cli.HelpFlag.(*cli.BoolFlag).Category = MiscCategory
	cli.VersionFlag.(*cli.BoolFlag).Category = MiscCategory
}
