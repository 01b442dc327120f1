package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"github.com/quic-go/quic-go"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/wire"
)

// Network is the transport handed to a running party: one channel to
// the next party in the triangle, one channel from the previous one.
// It satisfies internal/prf.Channel so the PRF handshake can run over
// it directly, and protocol gates use the same two methods for every
// interactive message they exchange.
type Network struct {
	Self party.ID

	channelNext *Channel
	channelPrev *Channel
}

// SendNext forwards data to the next party.
func (n *Network) SendNext(data []byte) error {
	return n.channelNext.Send(data)
}

// ReceivePrev blocks for the next frame from the previous party.
func (n *Network) ReceivePrev() ([]byte, error) {
	return n.channelPrev.Receive()
}

// Receive by arbitrary party and broadcast belong to the wider
// network surface a malicious-security variant would need. The
// semi-honest protocol never exercises them, so they fail loudly
// instead of guessing at semantics the fast path doesn't define.

// Receive is unsupported: the fast path only ever reads from the
// previous party.
func (n *Network) Receive(from party.ID) ([]byte, error) {
	return nil, &errs.Other{Msg: fmt.Sprintf("receive from party %s: only receive-from-previous is supported", from)}
}

// Broadcast is unsupported in the semi-honest protocol.
func (n *Network) Broadcast(data []byte) error {
	return &errs.Other{Msg: "broadcast is not supported"}
}

// Shutdown half-closes both of the party's channels.
func (n *Network) Shutdown() error {
	errNext := n.channelNext.Shutdown()
	errPrev := n.channelPrev.Shutdown()
	if errNext != nil {
		return errNext
	}
	return errPrev
}

// PeerConfig describes one endpoint of the party triangle as loaded
// from the YAML config: the address DialQUIC dials when this peer is
// the next party (every party listens on its own address), the DNS
// name its certificate is issued for, and the DER certificate the
// dialer pins.
type PeerConfig struct {
	ID         party.ID
	DNSName    string
	SocketAddr string
	CertDER    []byte
}

// DialQUIC establishes the party triangle over QUIC: self listens for
// its previous neighbour's connection while dialing out to its next
// neighbour, exchanging a Hello control frame on each stream before
// handing the raw channel to the caller. This is the production
// transport; LocalTriangle is its in-memory stand-in for tests and
// the CLI's simulation mode.
func DialQUIC(ctx context.Context, self party.ID, listenAddr string, key tls.Certificate, next, prev PeerConfig) (*Network, error) {
	tlsConf := &tls.Config{
		Certificates: []tls.Certificate{key},
		NextProtos:   []string{"aby3"},
	}

	listener, err := quic.ListenAddr(listenAddr, tlsConf, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, fmt.Sprintf("listen on %s", listenAddr))
	}
	// The listener owns the UDP socket the accepted connection runs
	// over, so it must stay open for the session's lifetime; it is torn
	// down with the process at the end of the one-shot run.

	type acceptResult struct {
		conn quic.Connection
		err  error
	}
	acceptCh := make(chan acceptResult, 1)
	go func() {
		conn, err := listener.Accept(ctx)
		acceptCh <- acceptResult{conn, err}
	}()

	dialTLSConf := &tls.Config{
		Certificates: []tls.Certificate{key},
		NextProtos:   []string{"aby3"},
		RootCAs:      certPool(next.CertDER),
		ServerName:   next.DNSName,
	}
	nextConn, err := quic.DialAddr(ctx, next.SocketAddr, dialTLSConf, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, fmt.Sprintf("dial next party at %s", next.SocketAddr))
	}
	nextStream, err := nextConn.OpenStreamSync(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "open stream to next party")
	}
	if err := sendHello(nextStream, self, next.ID); err != nil {
		return nil, err
	}

	accepted := <-acceptCh
	if accepted.err != nil {
		return nil, errs.Wrap(errs.ErrIO, "accept connection from previous party")
	}
	prevStream, err := accepted.conn.AcceptStream(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "accept stream from previous party")
	}
	if err := recvHello(prevStream, self, prev.ID); err != nil {
		return nil, err
	}

	return &Network{
		Self:        self,
		channelNext: NewChannel(nextStream),
		channelPrev: NewChannel(prevStream),
	}, nil
}

func certPool(der []byte) *x509.CertPool {
	pool := x509.NewCertPool()
	if cert, err := x509.ParseCertificate(der); err == nil {
		pool.AddCert(cert)
	}
	return pool
}

func sendHello(conn Conn, from, to party.ID) error {
	ch := NewChannel(conn)
	body, err := wire.EncodeHello(wire.Hello{From: from, To: to})
	if err != nil {
		return err
	}
	return ch.Send(body)
}

func recvHello(conn Conn, self, expectFrom party.ID) error {
	ch := NewChannel(conn)
	body, err := ch.Receive()
	if err != nil {
		return err
	}
	h, err := wire.DecodeHello(body)
	if err != nil {
		return err
	}
	if h.From != expectFrom || h.To != self {
		return errs.Wrap(errs.ErrConfig, "hello frame does not match expected party triangle")
	}
	return nil
}
