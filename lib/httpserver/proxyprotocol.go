package httpserver

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
)

// proxyProtocolConn reads the proxy protocol v1 header line from the wrapped
// connection on first read and reports the client address from the header
type proxyProtocolConn struct {
	net.Conn
	once       sync.Once
	br         *bufio.Reader
	remoteAddr net.Addr
	readErr    error
}

func newProxyProtocolConn(c net.Conn) net.Conn {
	return &proxyProtocolConn{
		Conn: c,
		br:   bufio.NewReader(c),
	}
}

func (c *proxyProtocolConn) Read(p []byte) (int, error) {
	c.once.Do(c.readHeader)
	if c.readErr != nil {
		return 0, c.readErr
	}
	return c.br.Read(p)
}

func (c *proxyProtocolConn) RemoteAddr() net.Addr {
	c.once.Do(c.readHeader)
	if c.remoteAddr != nil {
		return c.remoteAddr
	}
	return c.Conn.RemoteAddr()
}

// readHeader parses a "PROXY TCP4 srcIP dstIP srcPort dstPort\r\n" line
func (c *proxyProtocolConn) readHeader() {
	line, err := c.br.ReadString('\n')
	if err != nil {
		c.readErr = fmt.Errorf("cannot read proxy protocol header: %w", err)
		return
	}
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, " ")
	if len(fields) < 2 || fields[0] != "PROXY" {
		c.readErr = fmt.Errorf("invalid proxy protocol header %q", line)
		return
	}
	if fields[1] == "UNKNOWN" {
		return
	}
	if len(fields) != 6 {
		c.readErr = fmt.Errorf("unexpected number of fields in proxy protocol header %q; got %d; want 6", line, len(fields))
		return
	}
	srcIP := net.ParseIP(fields[2])
	srcPort, err := strconv.Atoi(fields[4])
	if srcIP == nil || err != nil {
		c.readErr = fmt.Errorf("cannot parse source address from proxy protocol header %q", line)
		return
	}
	c.remoteAddr = &net.TCPAddr{
		IP:   srcIP,
		Port: srcPort,
	}
}
