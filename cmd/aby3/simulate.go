package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/aby3/internal/iriscode"
	"github.com/luxfi/aby3/internal/logging"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/transport"
	"github.com/luxfi/aby3/protocols/arithmetic"
	"github.com/luxfi/aby3/protocols/binary"
	"github.com/luxfi/aby3/protocols/iris"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	a, b, err := demoPair(irisDB)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sharesA := iris.ShareBits(rng, a.Code, circuitKind)
	sharesB := iris.ShareBits(rng, b.Code, circuitKind)

	plain, err := iriscode.IsClose(a, b)
	if err != nil {
		return err
	}

	nets := transport.LocalTriangle()
	ids := [3]party.ID{party.ID0, party.ID1, party.ID2}

	var (
		mu      sync.Mutex
		verdict [3]bool
	)
	var g errgroup.Group
	start := time.Now()
	for _, id := range ids {
		id := id
		g.Go(func() error {
			log, err := logging.New(id, logLevel)
			if err != nil {
				return fmt.Errorf("party %s: %w", id, err)
			}
			net := nets[id]
			defer func() { _ = net.Shutdown() }()

			arith, err := arithmetic.Preprocess(circuitKind, net)
			if err != nil {
				return fmt.Errorf("party %s: %w", id, err)
			}
			bin := binary.New(circuitKind, net, arith.PRF())
			circuit, err := iris.New(id, circuitKind, arith, bin, log)
			if err != nil {
				return fmt.Errorf("party %s: %w", id, err)
			}
			match, err := circuit.MatchPair(sharesA[id.Int()], sharesB[id.Int()], a.Mask, b.Mask)
			if err != nil {
				return fmt.Errorf("party %s: %w", id, err)
			}
			mu.Lock()
			verdict[id.Int()] = match
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if verdict[0] != verdict[1] || verdict[1] != verdict[2] {
		return fmt.Errorf("parties disagree on the opened bit: %v", verdict)
	}
	fmt.Printf("match: %t (plaintext reference: %t, %s)\n", verdict[0], plain, time.Since(start).Round(time.Millisecond))
	if verdict[0] != plain {
		return fmt.Errorf("secure result disagrees with plaintext reference")
	}
	return nil
}
