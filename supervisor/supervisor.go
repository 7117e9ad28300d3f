// Package supervisor runs one goroutine per mountpoint, requesting an NTRIP
// stream, decoding whatever RTCM3 frames arrive, and reconnecting with
// linear backoff when the connection drops. Grounded on the teacher's use of
// golang.org/x/sync/errgroup for concurrent per-target workers (see
// facebook-time's ptp/sptp/client), restructured around NTRIP mountpoints
// instead of PTP grandmasters.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bedrocksolutions/ntripgo/internal/clock"
	"github.com/bedrocksolutions/ntripgo/ntrip"
	"github.com/bedrocksolutions/ntripgo/rtcm3"
)

// FrameHandler processes one decoded RTCM3 message read from a mountpoint.
type FrameHandler func(mountpoint string, msg *rtcm3.DecodedMessage)

// RawFrameHandler receives one still-sealed RTCM3 frame (preamble through
// CRC) exactly as read off the wire, ahead of decoding - used to capture a
// verbatim copy of the stream to disk.
type RawFrameHandler func(mountpoint string, frame []byte)

// Target describes one mountpoint to supervise.
type Target struct {
	Endpoint    ntrip.CasterEndpoint
	Mountpoint  string
	Credentials *ntrip.Credentials
	GGA         string
}

// Supervisor owns the set of mountpoints under management and the policy
// used to reconnect them.
type Supervisor struct {
	Logger         *slog.Logger
	Clock          clock.Clock
	RetryThreshold int
	OnFrame        FrameHandler
	OnRawFrame     RawFrameHandler
}

// New returns a Supervisor with production defaults: the system clock and a
// retry threshold of 5, matching the default in spec section 4.5.
func New(logger *slog.Logger, onFrame FrameHandler) *Supervisor {
	return &Supervisor{
		Logger:         logger,
		Clock:          clock.NewSystemClock(),
		RetryThreshold: 5,
		OnFrame:        onFrame,
	}
}

// ErrConnectionRefused is returned when the very first connection attempt
// for a mountpoint fails; callers map this to the CLI's exit code 1.
var ErrConnectionRefused = errors.New("supervisor: connection refused")

// Run supervises every target concurrently, one goroutine each, until ctx is
// cancelled or one target's initial connection is refused. It returns the
// first error encountered, consistent with errgroup.Group semantics; the
// other goroutines are cancelled via ctx when one returns an error.
func (s *Supervisor) Run(ctx context.Context, targets []Target) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		target := target
		eg.Go(func() error {
			return s.runMountpoint(ctx, target)
		})
	}
	return eg.Wait()
}

func (s *Supervisor) runMountpoint(ctx context.Context, target Target) error {
	sessionID := uuid.New()
	logger := s.logger().With("mountpoint", target.Mountpoint, "session", sessionID)

	fail := 0
	first := true
	for {
		err := s.connectAndStream(ctx, target, logger)
		if err == nil {
			return nil // ctx cancelled cleanly
		}
		if ctx.Err() != nil {
			return nil
		}

		if first {
			first = false
			var transportErr *ntrip.TransportError
			if errors.As(err, &transportErr) {
				logger.Error("initial connection refused", "error", err)
				return fmt.Errorf("%s: %w", target.Mountpoint, ErrConnectionRefused)
			}
		}

		fail++
		if fail >= s.RetryThreshold {
			delay := time.Duration(5*fail) * time.Second
			if delay > 300*time.Second {
				delay = 300 * time.Second
			}
			logger.Warn("reconnecting after backoff", "attempt", fail, "delay", delay, "error", err)
			s.clockOrDefault().Sleep(delay)
		} else {
			logger.Warn("reconnecting", "attempt", fail, "error", err)
			s.clockOrDefault().Sleep(2 * time.Second)
		}
	}
}

// connectAndStream opens one session, requests the stream and decodes
// frames until the stream ends or ctx is cancelled. It returns nil only when
// ctx was cancelled; any I/O failure, including a drop after frames have
// arrived, returns a non-nil error so the caller applies backoff and
// retries. The caller's failure count is not reset after a stream has been
// established.
func (s *Supervisor) connectAndStream(ctx context.Context, target Target, logger *slog.Logger) error {
	session := ntrip.NewSession(logger)
	if err := session.Connect(ctx, target.Endpoint); err != nil {
		return err
	}
	defer session.Close()

	framer, err := session.RequestNtripStream(target.Endpoint, target.Mountpoint, target.Credentials, target.GGA)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		session.Close()
		close(done)
	}()

	for {
		frame, err := framer.NextFrame()
		if err != nil {
			select {
			case <-ctx.Done():
				<-done
				return nil
			default:
				return err
			}
		}

		if s.OnRawFrame != nil {
			s.OnRawFrame(target.Mountpoint, frame)
		}

		msg, err := rtcm3.Decode(frame[3 : len(frame)-3])
		if err != nil {
			logger.Warn("failed to decode frame", "error", err)
			continue
		}
		if s.OnFrame != nil {
			s.OnFrame(target.Mountpoint, msg)
		}
	}
}

func (s *Supervisor) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Supervisor) clockOrDefault() clock.Clock {
	if s.Clock == nil {
		return clock.NewSystemClock()
	}
	return s.Clock
}
