// Package bench implements the user-space clients of the Fibonacci device:
// a read listing, a per-strategy timing statistic and a single-sample plot
// listing.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agbru/fibdrv/internal/fibdrv"
)

const (
	// ReadBufferSize is the size of the buffer the read listing reads into.
	ReadBufferSize = 1000
	// DefaultReadOffset is the last position visited by the read listing.
	DefaultReadOffset = 1000
	// DefaultStatOffset is the last position measured by Stat and Plot.
	DefaultStatOffset = 100
	// DefaultSamples is the number of timings taken per strategy and position.
	DefaultSamples = 1000
)

// Device opens sessions on a Fibonacci device.
type Device interface {
	Open() (*fibdrv.Session, error)
}

// ReadListing reads F(i) for i in [0, upTo] and prints one line per
// position. Lines whose digits did not fit ReadBufferSize bytes are
// prefixed with "[Truncated]\t".
//
// Parameters:
//   - ctx: Checked between positions.
//   - dev: The device to open.
//   - upTo: The last position to read.
//   - out: The listing destination.
//
// Returns:
//   - error: An error if the device could not be opened, a read failed or
//     the context was cancelled.
func ReadListing(ctx context.Context, dev Device, upTo int64, out io.Writer) error {
	s, err := dev.Open()
	if err != nil {
		return fmt.Errorf("opening device: %w", err)
	}
	defer s.Close()

	buf := make([]byte, ReadBufferSize)
	for i := int64(0); i <= upTo; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Seek(i, io.SeekStart); err != nil {
			return err
		}
		n, err := s.Read(buf)
		truncated := errors.Is(err, fibdrv.ErrTruncated)
		if err != nil && !truncated {
			return fmt.Errorf("reading offset %d: %w", i, err)
		}
		if truncated {
			fmt.Fprint(out, "[Truncated]\t")
		}
		fmt.Fprintf(out, "Reading from device at offset %d, returned the sequence %s.\n", i, buf[:n])
	}
	return nil
}
