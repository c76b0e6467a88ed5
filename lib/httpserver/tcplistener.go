package httpserver

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net"

	"github.com/VictoriaMetrics/metrics"
)

var enableTCP6 = flag.Bool("enableTCP6", false, "Whether to enable IPv6 for listening and dialing. By default, only IPv4 TCP and UDP are used")

func NewTCPListener(name, addr string, useProxyProtocol bool, tlsConfig *tls.Config) (net.Listener, error) {
	network := GetTCPNetwork()
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, err
	}

	tln := &TCPListener{
		Listener:         ln,
		useProxyProtocol: useProxyProtocol,
		tlsConfig:        tlsConfig,

		accepts:      metrics.GetOrCreateCounter(fmt.Sprintf(`vapi_tcplistener_accepts_total{name=%q, addr=%q}`, name, addr)),
		acceptErrors: metrics.GetOrCreateCounter(fmt.Sprintf(`vapi_tcplistener_errors_total{name=%q, addr=%q}`, name, addr)),
	}
	return tln, nil
}

// TCPListener listens for the addr passed to NewTCPListener
type TCPListener struct {
	net.Listener

	useProxyProtocol bool
	tlsConfig        *tls.Config

	accepts      *metrics.Counter
	acceptErrors *metrics.Counter
}

// Accept accepts connections from the addr passed to NewTCPListener
func (ln *TCPListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		ln.acceptErrors.Inc()
		return nil, err
	}
	ln.accepts.Inc()
	if ln.useProxyProtocol {
		conn = newProxyProtocolConn(conn)
	}
	if ln.tlsConfig != nil {
		conn = tls.Server(conn, ln.tlsConfig)
	}
	return conn, nil
}

// GetTCPNetwork returns current tcp network.
func GetTCPNetwork() string {
	if *enableTCP6 {
		// Enable both tcp4 and tcp6
		return "tcp"
	}
	return "tcp4"
}
