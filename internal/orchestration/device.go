package orchestration

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/fibdrv/internal/bench"
	"github.com/agbru/fibdrv/internal/config"
)

// RunDeviceMode runs the device client selected by cfg.Mode against dev.
//
// Parameters:
//   - ctx: Stops the client between positions.
//   - cfg: Selects the client (read, stat or plot) and its offset and
//     sample count.
//   - dev: The device to open.
//   - out: The destination of the listing.
//
// Returns:
//   - error: ErrBusy when the device is held, a device error, or an error
//     for a mode that does not use the device.
func RunDeviceMode(ctx context.Context, cfg config.AppConfig, dev bench.Device, out io.Writer) error {
	offset := cfg.BenchOffset()
	switch cfg.Mode {
	case config.ModeRead:
		return bench.ReadListing(ctx, dev, offset, out)
	case config.ModeStat:
		return bench.Stat(ctx, dev, bench.StatConfig{Offset: offset, Samples: cfg.Samples}, out)
	case config.ModePlot:
		return bench.Plot(ctx, dev, offset, out)
	default:
		return fmt.Errorf("mode %q does not use the device", cfg.Mode)
	}
}
