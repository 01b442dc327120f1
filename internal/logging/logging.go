// Package logging configures the structured logger every long-running
// aby3 process uses, following the zerolog idiom the rest of this
// module uses.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
)

// New builds a zerolog.Logger writing to stderr, tagged with the
// party's own ID so a shared log aggregator can separate the three
// parties' output.
func New(self party.ID, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, errs.Wrap(errs.ErrConfig, "unrecognized log level")
	}
	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Str("party", self.String()).
		Logger(), nil
}
