// Package httpapi is the HTTP Streamer (C9): the MJPEG snapshot stream and
// the stats WebSocket, both reading the Snapshot Cache and global counters
// without ever touching the canvas directly.
package httpapi

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// randomBoundary generates a MIME multipart boundary of the fixed length the
// spec calls for, compatible with RFC 2046 section 5.1.1.
func randomBoundary(length int) string {
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		panic(err)
	}
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}

type partWriter struct {
	u        io.Writer
	boundary string
	started  bool
}

func makePartWriter(u io.Writer, boundaryLength int) partWriter {
	return partWriter{
		u:        u,
		boundary: randomBoundary(boundaryLength),
	}
}

// writeFrame sends a single part of a MIME multipart entity, ensuring it's
// fully written by the time the function returns.
//
// Go's mime/multipart.Writer isn't suitable for a neverending stream of
// parts that each must be flushed to the client with the part-ending
// boundary line, so this writes the wire format directly.
func (w *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	var buf bytes.Buffer

	if !w.started {
		fmt.Fprintf(&buf, "--%s\r\n", w.boundary)
		w.started = true
	}

	for name := range header {
		for _, value := range header[name] {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
		}
	}
	buf.WriteString("\r\n")

	if _, err := buf.WriteTo(w.u); err != nil {
		return err
	}
	if _, err := io.Copy(w.u, bytes.NewReader(body)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.u, "\r\n--%s\r\n", w.boundary)
	return err
}
