package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
)

// runPlaintext compares a probe against every database record in the
// clear. With --should-match the probe is a noisy copy of the first
// record, exercising the positive path end to end; otherwise it is an
// independently random record that should miss.
func runPlaintext(cmd *cobra.Command, args []string) error {
	records, err := loadIrisDB(irisDB)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errs.Wrap(errs.ErrConfig, "iris database is empty")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var probe iriscode.IrisCode
	if shouldMatch {
		probe = iriscode.Similar(rng, records[0], 0.05)
	} else {
		probe = iriscode.Random(rng)
	}

	found := false
	for _, rec := range records {
		hit, err := iriscode.IsClose(rec, probe)
		if err != nil {
			// A low-weight combined mask refuses this comparison but
			// does not invalidate the rest of the scan.
			if errors.Is(err, errs.ErrMaskHW) {
				continue
			}
			return err
		}
		found = found || hit
	}

	if found {
		fmt.Println("Found a match!")
	} else {
		fmt.Println("No match found")
	}
	return nil
}
