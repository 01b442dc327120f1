package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/aby3/internal/config"
	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
	"github.com/luxfi/aby3/internal/logging"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/transport"
	"github.com/luxfi/aby3/protocols/arithmetic"
	"github.com/luxfi/aby3/protocols/binary"
	"github.com/luxfi/aby3/protocols/iris"
)

// circuitKind is the ring the demo circuit runs over. K32 leaves
// ample headroom over the 12800-bit code size for the threshold
// difference's sign-bit test.
const circuitKind = ring.K32

// demoDealerSeed seeds the demo's share dealing. The dealing runs in
// the clear and identically on every party: the demo shows the
// protocol machinery end to end, it does not model the deployed
// setting where an external client deals the shares.
const demoDealerSeed = 0x61627933

func runParty(cmd *cobra.Command, args []string) error {
	self, err := party.New(partyIndex)
	if err != nil {
		return err
	}
	log, err := logging.New(self, logLevel)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	ownEntry, ok := cfg.Entry(self)
	if !ok {
		return errs.Wrap(errs.ErrConfig, "own party missing from config")
	}
	tlsCert, err := loadIdentity(ownEntry.CertPath, keyFile)
	if err != nil {
		return err
	}
	nextPeer, err := peerConfig(cfg, self.Next())
	if err != nil {
		return err
	}
	prevPeer, err := peerConfig(cfg, self.Prev())
	if err != nil {
		return err
	}

	a, b, err := demoPair(irisDB)
	if err != nil {
		return err
	}

	log.Info().
		Str("listen", ownEntry.SocketAddr).
		Str("next", nextPeer.SocketAddr).
		Msg("establishing party triangle")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	net, err := transport.DialQUIC(ctx, self, ownEntry.SocketAddr, tlsCert, nextPeer, prevPeer)
	if err != nil {
		return err
	}
	defer func() { _ = net.Shutdown() }()

	arith, err := arithmetic.Preprocess(circuitKind, net)
	if err != nil {
		return err
	}
	mineFP, theirsFP := arith.PRF().Fingerprints()
	log.Debug().Str("mine", mineFP).Str("theirs", theirsFP).Msg("prf seeds exchanged")

	bin := binary.New(circuitKind, net, arith.PRF())
	circuit, err := iris.New(self, circuitKind, arith, bin, log)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(demoDealerSeed))
	sharesA := iris.ShareBits(rng, a.Code, circuitKind)
	sharesB := iris.ShareBits(rng, b.Code, circuitKind)

	match, err := circuit.MatchPair(sharesA[self.Int()], sharesB[self.Int()], a.Mask, b.Mask)
	if err != nil {
		return err
	}
	fmt.Printf("match: %t\n", match)
	return nil
}

// loadIdentity assembles our TLS identity from the DER certificate
// the config points at and the DER private key file.
func loadIdentity(certPath, keyPath string) (tls.Certificate, error) {
	certDER, err := os.ReadFile(certPath)
	if err != nil {
		return tls.Certificate{}, errs.Wrap(errs.ErrIO, "read certificate file")
	}
	keyDER, err := os.ReadFile(keyPath)
	if err != nil {
		return tls.Certificate{}, errs.Wrap(errs.ErrIO, "read key file")
	}
	key, err := parseDERKey(keyDER)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{certDER}, PrivateKey: key}, nil
}

func parseDERKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	return nil, errs.Wrap(errs.ErrConfig, "key file is not a DER-encoded private key")
}

func peerConfig(cfg config.Config, id party.ID) (transport.PeerConfig, error) {
	entry, ok := cfg.Entry(id)
	if !ok {
		return transport.PeerConfig{}, errs.Wrap(errs.ErrConfig, "peer missing from config")
	}
	certDER, err := os.ReadFile(entry.CertPath)
	if err != nil {
		return transport.PeerConfig{}, errs.Wrap(errs.ErrIO, "read peer certificate")
	}
	return transport.PeerConfig{ID: id, DNSName: entry.DNSName, SocketAddr: entry.SocketAddr, CertDER: certDER}, nil
}

// demoPair picks the pair of records the demo matches: the first two
// database rows when a database is given, otherwise a random record
// and a simulated re-capture of it.
func demoPair(dbPath string) (a, b iriscode.IrisCode, err error) {
	rng := rand.New(rand.NewSource(demoDealerSeed))
	if dbPath == "" {
		a = iriscode.Random(rng)
		b = iriscode.Similar(rng, a, 0.05)
		return a, b, nil
	}
	records, err := loadIrisDB(dbPath)
	if err != nil {
		return iriscode.IrisCode{}, iriscode.IrisCode{}, err
	}
	switch len(records) {
	case 0:
		return iriscode.IrisCode{}, iriscode.IrisCode{}, errs.Wrap(errs.ErrConfig, "iris database is empty")
	case 1:
		return records[0], iriscode.Similar(rng, records[0], 0.05), nil
	default:
		return records[0], records[1], nil
	}
}
