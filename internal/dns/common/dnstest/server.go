// Package dnstest provides a configurable DNS server simulator for tests.
// It is built on miekg/dns, a codec this repo does not otherwise use, so
// tests exercise the production wire codec against an independent
// implementation of the format.
package dnstest

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Response defines how the server answers a specific question.
type Response struct {
	// Msg is sent as the response if non-nil. Its id and question are set
	// from the incoming request before sending.
	Msg *dns.Msg

	// Rcode is used when Msg is nil to set the reply code of a generated
	// empty response. Defaults to success.
	Rcode int

	// Raw is written directly on the wire instead of Msg/Rcode, allowing
	// malformed packets.
	Raw []byte

	// Drop ignores the request, simulating a timeout.
	Drop bool

	// Delay waits before answering.
	Delay time.Duration
}

// Server simulates a UDP DNS server for tests. Questions without a
// configured response are answered NXDOMAIN.
type Server struct {
	// Addr is the ip:port the server listens on.
	Addr string

	responses map[string]*Response
	udp       *dns.Server
}

// NewServer starts a server on addr (use "127.0.0.1:0" for an automatic
// port) serving the provided responses.
func NewServer(addr string, responses map[string]*Response) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Addr:      conn.LocalAddr().String(),
		responses: responses,
	}
	s.udp = &dns.Server{PacketConn: conn, Handler: dns.HandlerFunc(s.handle)}
	go func() { _ = s.udp.ActivateAndServe() }()

	return s, nil
}

// Close shuts the server down.
func (s *Server) Close() {
	if s.udp != nil {
		_ = s.udp.Shutdown()
	}
}

func (s *Server) handle(w dns.ResponseWriter, req *dns.Msg) {
	if len(req.Question) == 0 {
		_ = w.Close()
		return
	}
	q := req.Question[0]
	resp, ok := s.responses[Key(q.Name, q.Qtype)]
	if !ok {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		_ = w.WriteMsg(m)
		return
	}

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	if resp.Drop {
		return
	}
	if resp.Raw != nil {
		_, _ = w.Write(resp.Raw)
		return
	}

	var m *dns.Msg
	if resp.Msg != nil {
		m = resp.Msg.Copy()
		// SetReply clears the sections; keep the configured records.
		ans, ns, extra := m.Answer, m.Ns, m.Extra
		m.SetReply(req)
		m.Answer, m.Ns, m.Extra = ans, ns, extra
	} else {
		m = new(dns.Msg)
		m.SetReply(req)
	}
	if resp.Rcode != 0 {
		m.Rcode = resp.Rcode
	}
	_ = w.WriteMsg(m)
}

// Key returns the responses map key for a question name and type. The name
// is matched with a trailing dot, as miekg/dns presents it.
func Key(name string, qtype uint16) string {
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return strings.ToLower(name) + "/" + strconv.FormatUint(uint64(qtype), 10)
}
