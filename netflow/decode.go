package netflow

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Decoder yields Record values one at a time from a pretty-printed JSON
// array (one object per line or several, arbitrary interleaved
// whitespace). It never buffers more than one object's worth of bytes,
// so arbitrarily large files can be processed without materializing the
// whole array — the requirement spec.md §4.1 calls out explicitly.
//
// Decoder is single-pass and non-restartable: once Next returns
// io.EOF, the Decoder is spent.
type Decoder struct {
	r    *bufio.Reader
	done bool
}

// NewDecoder wraps r, an already-open stream of the decoder subprocess's
// pretty-printed JSON array output.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next validated Record, or io.EOF once the closing "]"
// has been consumed. Any other error is fatal for the stream: a single
// malformed record invalidates the whole file, per spec.md §4.1.
func (d *Decoder) Next() (*Record, error) {
	if d.done {
		return nil, io.EOF
	}

	obj, err := d.nextObject()
	if err != nil {
		return nil, err
	}
	if obj == nil {
		d.done = true
		return nil, io.EOF
	}

	rec, err := FromObject(obj)
	if err != nil {
		d.done = true
		return nil, err
	}
	return rec, nil
}

// nextObject scans forward until it has read one complete "{"..."}"
// object (honoring string literals and escapes so an embedded brace
// inside a JSON string value never terminates early), or until it
// encounters the array's closing "]", in which case it returns (nil,
// nil) to signal end of stream.
func (d *Decoder) nextObject() ([]byte, error) {
	// Skip whitespace, commas, and the opening "[" until we find either
	// "{" (an object starts) or "]" (the array ends).
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		switch b {
		case ' ', '\t', '\n', '\r', ',', '[':
			continue
		case '{':
			var buf bytes.Buffer
			buf.WriteByte(b)
			if err := d.readObjectBody(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		case ']':
			return nil, nil
		default:
			return nil, fmt.Errorf("unexpected byte %q at start of array element", b)
		}
	}
}

// readObjectBody appends bytes to buf until the object opened by the
// "{" already written to buf is balanced, tracking string/escape state
// so braces inside string values are ignored.
func (d *Decoder) readObjectBody(buf *bytes.Buffer) error {
	depth := 1
	inString := false
	escaped := false

	for depth > 0 {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("unexpected end of stream inside object")
			}
			return err
		}
		buf.WriteByte(b)

		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return nil
}

// Stream spawns "nfdump -r <file> -o json" and returns a Decoder over its
// standard output, plus a Close func that must be called exactly once to
// release the subprocess and its pipe regardless of how decoding ends.
func Stream(ctx context.Context, file string) (*Decoder, func() error, error) {
	cmd := exec.CommandContext(ctx, "nfdump", "-r", file, "-o", "json")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("opening nfdump pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting nfdump: %w", err)
	}

	closeFn := func() error {
		_ = stdout.Close()
		return cmd.Wait()
	}
	return NewDecoder(stdout), closeFn, nil
}
