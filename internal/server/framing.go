// Package server implements the tool-layer host boundary from
// spec.md §6: a byte-stream transport that auto-detects which of two
// framings the client is speaking and dispatches decoded requests to
// astograph's eight core operations.
//
// The framing state machine follows spec.md §9's translation of the
// original's coroutine-based transport (src/astrograph/stdio_transport.py):
// three states — Undetected, Newline, Framed — and a single
// suspension point, "read more bytes". Detection and message framing
// are hand-rolled because neither off-the-shelf MCP SDK transport
// auto-detects between newline-delimited and Content-Length-prefixed
// clients on the same stream. Only the tool declarations reuse
// github.com/modelcontextprotocol/go-sdk/mcp's Tool type; request and
// response envelopes are astograph's own (protocol.go).
package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mode is the detected framing of a connection.
type Mode int

const (
	Undetected Mode = iota
	Newline
	Framed
)

func (m Mode) String() string {
	switch m {
	case Newline:
		return "newline"
	case Framed:
		return "framed"
	default:
		return "undetected"
	}
}

// Reader auto-detects and decodes the dual framing described in
// spec.md §6 from an underlying byte stream. It is not safe for
// concurrent use.
type Reader struct {
	br   *bufio.Reader
	mode Mode
}

// NewReader wraps r in a dual-framing Reader. Mode is Undetected
// until the first call to ReadMessage.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Mode reports the framing detected so far, or Undetected if no
// message has been read yet.
func (r *Reader) Mode() Mode { return r.mode }

// ReadMessage returns the next complete JSON message body, with
// framing bytes (the trailing newline, or the Content-Length header)
// stripped. It returns io.EOF when the stream is exhausted cleanly.
func (r *Reader) ReadMessage() ([]byte, error) {
	if r.mode == Undetected {
		if err := r.detectMode(); err != nil {
			return nil, err
		}
	}
	if r.mode == Framed {
		return r.readFramed()
	}
	return r.readNewline()
}

// detectMode peeks past leading whitespace to classify the first
// meaningful byte: '{' (or anything but 'C') means Newline framing,
// 'C' (the start of "Content-Length:") means Framed.
func (r *Reader) detectMode() error {
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case 'C':
			r.mode = Framed
			if err := r.br.UnreadByte(); err != nil {
				return err
			}
			return nil
		default:
			r.mode = Newline
			if err := r.br.UnreadByte(); err != nil {
				return err
			}
			return nil
		}
	}
}

func (r *Reader) readNewline() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if len(line) == 0 {
		return nil, err
	}
	// err == io.EOF here means the last message lacked a trailing
	// newline (e.g. a single write without a final '\n'); still
	// deliver what was read, same as the original transport.
	if err != nil && err != io.EOF {
		return nil, err
	}
	return bytes.TrimSpace(line), nil
}

func (r *Reader) readFramed() ([]byte, error) {
	var headerBuf bytes.Buffer
	for {
		line, err := r.br.ReadBytes('\n')
		headerBuf.Write(line)
		if err != nil {
			return nil, err
		}
		if bytes.HasSuffix(headerBuf.Bytes(), []byte("\r\n\r\n")) {
			break
		}
	}
	length := -1
	for _, h := range strings.Split(headerBuf.String(), "\r\n") {
		if lower := strings.ToLower(h); strings.HasPrefix(lower, "content-length:") {
			n, err := strconv.Atoi(strings.TrimSpace(h[len("content-length:"):]))
			if err != nil {
				return nil, fmt.Errorf("astograph: server: malformed Content-Length header %q: %w", h, err)
			}
			length = n
			break
		}
	}
	if length < 0 {
		return nil, fmt.Errorf("astograph: server: framed message missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return nil, err
	}
	return body, nil
}

// Writer encodes outgoing messages using the framing a Reader
// detected from the client's first message; responses must echo the
// request's framing per spec.md §6.
type Writer struct {
	w    io.Writer
	mode Mode
}

// NewWriter builds a Writer that frames every message according to
// mode (normally read from the paired Reader after its first
// ReadMessage call).
func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{w: w, mode: mode}
}

// WriteMessage frames and writes one JSON message body.
func (w *Writer) WriteMessage(body []byte) error {
	if w.mode == Framed {
		header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
		if _, err := io.WriteString(w.w, header); err != nil {
			return err
		}
		_, err := w.w.Write(body)
		return err
	}
	if _, err := w.w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, "\n")
	return err
}
