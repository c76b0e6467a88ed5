package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"vapi.io/vapi/lib/appmetrics"
	"vapi.io/vapi/lib/lflag"
	"vapi.io/vapi/lib/logger"
)

var (
	tlsEnable   = lflag.NewArrayBool("tls", "Whether to enable TLS for the server, -tlsCertFile and -tlsKeyFile must be set if -tls is set")
	tlsCertFile = lflag.NewArrayString("tlsCertFile", "Path to file with TLS certificate for the corresponding -httpListenAddr if -tls is set."+
		"Prefer ECDSA certs instead of RSA certs as RSA certs are slower")
	tlsKeyFile                  = lflag.NewArrayString("tlsKeyFile", "Path to file with TLS key for the corresponding -httpListenAddr if -tls is set")
	maxGracefulShutdownDuration = flag.Duration("http.maxGracefulShutdownDuration", 7*time.Second, `The maximum duration for a graceful shutdown of the HTTP server. A highly loaded server may require increased value for a graceful shutdown`)
	shutdownDelay               = flag.Duration("http.shutdownDelay", 0, `Optional delay before http server shutdown. During this delay, the server returns non-OK responses from /health page, so load balancers can route new requests to other servers`)
	idleConnTimeout             = flag.Duration("http.idleConnTimeout", time.Minute, "Timeout for incoming idle http connections")
	maxConns                    = flag.Int("http.maxConns", 0, "The maximum number of concurrent connections the server can accept at -httpListenAddr. Zero value disables the limit")
	disableResponseCompression  = flag.Bool("http.disableResponseCompression", false, "Disable compression of HTTP responses to save CPU resources. By default, compression is enabled to save network bandwidth")
	headerHSTS                  = flag.String("http.header.hsts", "max-age=31536000; includeSubDomains", "Value for 'Strict-Transport-Security' header, recommended: 'max-age=31536000; includeSubDomains'")
	headerFrameOptions          = flag.String("http.header.frameOptions", "SAMEORIGIN", "Value for 'X-Frame-Options' header")
	headerCSP                   = flag.String("http.header.csp", "default-src 'self'", `Value for 'Content-Security-Policy' header, recommended: "default-src 'self'"`)
	httpAuthUsername            = flag.String("httpAuth.username", "", "Username for HTTP server's Basic Auth. The authentication is disabled if empty")
	httpAuthPassword            = flag.String("httpAuth.password", "", "Password for HTTP server's Basic Auth. Accepts either the plain-text password or its bcrypt hash prefixed with $2. The authentication is disabled if -httpAuth.username is empty")
)

var (
	servers     = make(map[string]*server)
	serversLock sync.Mutex
)

var (
	requestsTotal     = metrics.NewCounter(`vapi_http_server_requests_total`)
	unauthorizedTotal = metrics.NewCounter(`vapi_http_server_unauthorized_requests_total`)
)

var hostname = func() string {
	h, err := os.Hostname()
	if err != nil {
		// Cannot use logger.Errorf, since it isn't initialized yet.
		// So use log.Printf instead.
		log.Printf("ERROR: cannot determine hostname: %s", err)
		return "unknown"
	}
	return h
}()

type server struct {
	s                     *http.Server
	shutdownDelayDeadline atomic.Int64
}

// RequestHandler must serve the given request r and write response to w
//
// RequestHandler must return true if the request has been served (successfully or not)
//
// RequestHandler must return false if it cannot serve the given request
type RequestHandler func(w http.ResponseWriter, r *http.Request) bool

type ServerOptions struct {
	// UseProxyProtocol if is set to true for the corresponding addr, then the incoming connections are accepted via proxy protocol
	UseProxyProtocol *lflag.ArrayBool
}

// Serve starts an http server on the given addresses with the given optional request handler
func Serve(addrs []string, rh RequestHandler, opts ServerOptions) {
	if rh == nil {
		rh = func(_ http.ResponseWriter, _ *http.Request) bool { return false }
	}
	for idx, addr := range addrs {
		if addr == "" {
			continue
		}
		logger.Infof("starting http server on %s", addr)
		go serve(addr, rh, idx, opts)
	}
}

func serve(addr string, rh RequestHandler, idx int, opts ServerOptions) {
	scheme := "http"
	if tlsEnable.GetOptionalArg(idx) {
		scheme = "https"
	}
	useProxyProto := false
	if opts.UseProxyProtocol != nil {
		useProxyProto = opts.UseProxyProtocol.GetOptionalArg(idx)
	}

	var tlsConfig *tls.Config
	if tlsEnable.GetOptionalArg(idx) {
		certFile := tlsCertFile.GetOptionalArg(idx)
		keyFile := tlsKeyFile.GetOptionalArg(idx)
		tc, err := GetServerTLSConfig(certFile, keyFile)
		if err != nil {
			logger.Fatalf("cannot load TLS cert from -tlsCertFile=%q, -tlsKeyFile=%q: %s", certFile, keyFile, err)
		}
		tlsConfig = tc
	}
	// create a TCP listener
	ln, err := NewTCPListener(scheme, addr, useProxyProto, tlsConfig)
	if err != nil {
		logger.Fatalf("cannot start http server on %s: %v", addr, err)
	}
	if *maxConns > 0 {
		ln = netutil.LimitListener(ln, *maxConns)
	}
	logger.Infof("started http server on %s://%s/", scheme, ln.Addr())

	serveWithListener(addr, ln, rh)
}

func serveWithListener(addr string, ln net.Listener, rh RequestHandler) {
	var s server

	s.s = &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       *idleConnTimeout,
		ErrorLog:          logger.StdErrorLogger(),
	}

	s.s.SetKeepAlivesEnabled(true)

	// Set handler
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerWrapper(&s, w, r, rh)
	})
	s.s.Handler = h

	serversLock.Lock()
	servers[addr] = &s
	serversLock.Unlock()
	if err := s.s.Serve(ln); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		logger.Panicf("FATAL: cannot serve http server on %s: %v", addr, err)
	}
}

// Stop stops the http servers on the given addrs, which have been started via Serve func
func Stop(addrs []string) error {
	var eg errgroup.Group
	for _, addr := range addrs {
		addr := addr
		if addr == "" {
			continue
		}
		eg.Go(func() error {
			return stop(addr)
		})
	}
	return eg.Wait()
}

func stop(addr string) error {
	serversLock.Lock()
	s := servers[addr]
	delete(servers, addr)
	serversLock.Unlock()
	if s == nil {
		err := fmt.Errorf("BUG: there is no server at %q", addr)
		logger.Panicf("%s", err)
		return err
	}

	deadline := time.Now().Add(*shutdownDelay).UnixNano()
	s.shutdownDelayDeadline.Store(deadline)
	if *shutdownDelay > 0 {
		// Sleep for a while until load balancer in front of the server
		// notifies that "/health" endpoint returns non-OK responses
		logger.Infof("Waiting for %.3fs before shutdown of http server %q, so load balancers could re-route requests to other servers", shutdownDelay.Seconds(), addr)
		time.Sleep(*shutdownDelay)
		logger.Infof("Starting shutdown for http server %q", addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *maxGracefulShutdownDuration)
	defer cancel()
	if err := s.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("cannot gracefully shutdown http server at %q in %.3fs; "+
			"probably, `-http.maxGracefulShutdownDuration` command-line flag value must be increased; error: %s", addr, maxGracefulShutdownDuration.Seconds(), err)
	}
	return nil
}

func handlerWrapper(s *server, w http.ResponseWriter, r *http.Request, rh RequestHandler) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", err, buf[:n])
			os.Exit(1)
		}
	}()

	requestsTotal.Inc()

	h := w.Header()
	if *headerHSTS != "" {
		h.Add("Strict-Transport-Security", *headerHSTS)
	}
	if *headerFrameOptions != "" {
		h.Add("X-Frame-Options", *headerFrameOptions)
	}
	if *headerCSP != "" {
		h.Add("Content-Security-Policy", *headerCSP)
	}
	h.Add("X-Server-Hostname", hostname)

	switch r.URL.Path {
	case "/health":
		h.Set("Content-Type", "text/plain; charset=utf-8")
		deadline := s.shutdownDelayDeadline.Load()
		if deadline <= 0 {
			_, _ = w.Write([]byte("OK"))
			return
		}
		// Return non-OK response during grace period before shutting down the server.
		d := time.Until(time.Unix(0, deadline))
		if d < 0 {
			d = 0
		}
		errMsg := fmt.Sprintf("The server is in delayed shutdown mode, which will end in %.3fs", d.Seconds())
		http.Error(w, errMsg, http.StatusServiceUnavailable)
		return
	}

	if !checkBasicAuth(w, r) {
		return
	}

	w = maybeGzipResponseWriter(w, r)
	defer func() {
		if zrw, ok := w.(*gzipResponseWriter); ok {
			zrw.Close()
		}
	}()

	switch r.URL.Path {
	case "/metrics":
		h.Set("Content-Type", "text/plain; charset=utf-8")
		appmetrics.WritePrometheusMetrics(w)
		return
	case "/flags":
		h.Set("Content-Type", "text/plain; charset=utf-8")
		lflag.WriteFlags(w)
		return
	}

	if rh(w, r) {
		return
	}
	http.Error(w, fmt.Sprintf("unsupported path requested: %q", r.URL.Path), http.StatusBadRequest)
}

// checkBasicAuth verifies the credentials configured via -httpAuth.username and -httpAuth.password
//
// The password may be given as a bcrypt hash, so the plain-text secret never reaches flags or config files.
func checkBasicAuth(w http.ResponseWriter, r *http.Request) bool {
	if *httpAuthUsername == "" {
		// HTTP Basic Auth is disabled.
		return true
	}
	username, password, ok := r.BasicAuth()
	if ok && username == *httpAuthUsername {
		if strings.HasPrefix(*httpAuthPassword, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(*httpAuthPassword), []byte(password)) == nil {
				return true
			}
		} else if password == *httpAuthPassword {
			return true
		}
	}
	unauthorizedTotal.Inc()
	w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
	http.Error(w, "", http.StatusUnauthorized)
	return false
}

func maybeGzipResponseWriter(w http.ResponseWriter, r *http.Request) http.ResponseWriter {
	if *disableResponseCompression {
		return w
	}
	ae := r.Header.Get("Accept-Encoding")
	if ae == "" {
		return w
	}
	if !strings.Contains(strings.ToLower(ae), "gzip") {
		return w
	}
	w.Header().Set("Content-Encoding", "gzip")
	zw := getGzipWriter(w)
	return &gzipResponseWriter{
		ResponseWriter: w,
		zw:             zw,
	}
}

var gzipWriterPool sync.Pool

func getGzipWriter(w io.Writer) *gzip.Writer {
	v := gzipWriterPool.Get()
	if v == nil {
		zw, err := gzip.NewWriterLevel(w, 1)
		if err != nil {
			logger.Panicf("BUG: cannot create gzip writer: %s", err)
		}
		return zw
	}
	zw := v.(*gzip.Writer)
	zw.Reset(w)
	return zw
}

func putGzipWriter(zw *gzip.Writer) {
	gzipWriterPool.Put(zw)
}

type gzipResponseWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	statusCode  int
	wroteHeader bool
}

func (zrw *gzipResponseWriter) WriteHeader(statusCode int) {
	zrw.statusCode = statusCode
	zrw.wroteHeader = true
	zrw.ResponseWriter.WriteHeader(statusCode)
}

func (zrw *gzipResponseWriter) Write(p []byte) (int, error) {
	if !zrw.wroteHeader {
		zrw.WriteHeader(http.StatusOK)
	}
	return zrw.zw.Write(p)
}

func (zrw *gzipResponseWriter) Close() {
	if err := zrw.zw.Close(); err != nil {
		logger.Errorf("cannot flush gzip response: %s", err)
	}
	putGzipWriter(zrw.zw)
}
