// Package openocd is a client for the OpenOCD telnet command channel.
// It exposes the small subset needed to drive a halted target: run
// control and single 32-bit memory accesses.
package openocd

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

const prompt = "> "

type Client struct {
	addr string
	conn net.Conn

	// Timeout bounds one command/response round trip.
	Timeout time.Duration
}

func New(addr string) (*Client, error) {
	c := &Client{
		addr:    addr,
		Timeout: 3 * time.Second,
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	c.conn = conn

	/* Consume the banner up to the first prompt */
	if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := c.readToPrompt(); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// NewFromConn wraps an already established connection. The caller is
// expected to have consumed any banner.
func NewFromConn(conn net.Conn) *Client {
	return &Client{
		addr:    conn.RemoteAddr().String(),
		conn:    conn,
		Timeout: 3 * time.Second,
	}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil

	return conn.Close()
}

func (c *Client) readToPrompt() (string, error) {
	var sb strings.Builder
	var buf [1]byte
	skip := 0

	for {
		if _, err := c.conn.Read(buf[:]); err != nil {
			return "", err
		}
		b := buf[0]

		/* Drop telnet IAC negotiation (0xff followed by two bytes) */
		if skip > 0 {
			skip--
			continue
		}
		if b == 0xff {
			skip = 2
			continue
		}
		if b == 0 || b == '\r' {
			continue
		}

		sb.WriteByte(b)
		if strings.HasSuffix(sb.String(), prompt) {
			s := sb.String()
			return s[:len(s)-len(prompt)], nil
		}
	}
}

// command sends one line and returns its output with the echo and the
// trailing prompt stripped.
func (c *Client) command(cmd string) (string, error) {
	if c.conn == nil {
		return "", errors.New("openocd: connection closed")
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return "", err
	}

	if _, err := c.conn.Write([]byte(cmd + "\r\n")); err != nil {
		return "", err
	}

	out, err := c.readToPrompt()
	if err != nil {
		return "", err
	}

	/* The server echoes the command as the first line */
	out = strings.TrimPrefix(out, cmd)
	out = strings.Trim(out, "\n")

	glog.V(3).Infof("openocd: %q -> %q", cmd, out)

	return out, nil
}

func (c *Client) Halt() error {
	_, err := c.command("halt")
	return err
}

func (c *Client) Resume() error {
	_, err := c.command("resume")
	return err
}

// ReadMem32 reads one 32-bit word from an absolute target address.
func (c *Client) ReadMem32(addr uint32) (uint32, error) {
	out, err := c.command(fmt.Sprintf("mdw 0x%08x", addr))
	if err != nil {
		return 0, err
	}

	/* Expected form: "0xff380100: 12345678" */
	for _, line := range strings.Split(out, "\n") {
		pos := strings.IndexByte(line, ':')
		if pos < 0 {
			continue
		}

		fields := strings.Fields(line[pos+1:])
		if len(fields) != 1 {
			continue
		}

		value, err := strconv.ParseUint(fields[0], 16, 32)
		if err != nil {
			continue
		}

		return uint32(value), nil
	}

	return 0, fmt.Errorf("openocd: cannot parse mdw response %q", out)
}

// WriteMem32 writes one 32-bit word to an absolute target address.
func (c *Client) WriteMem32(addr uint32, value uint32) error {
	out, err := c.command(fmt.Sprintf("mww 0x%08x 0x%08x", addr, value))
	if err != nil {
		return err
	}

	/* mww is silent on success */
	if strings.TrimSpace(out) != "" {
		return fmt.Errorf("openocd: mww failed: %s", strings.TrimSpace(out))
	}

	return nil
}
