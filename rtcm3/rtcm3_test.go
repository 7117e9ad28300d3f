package rtcm3

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageDescription(t *testing.T) {
	require.Equal(t, "GPS MSM7", messageDescription(1077))
	require.Equal(t, "Unicode Text String", messageDescription(1029))
	require.Equal(t, "Proprietary Message", messageDescription(4050))
	require.Equal(t, "Unknown or Reserved Message", messageDescription(9999))
}

func TestMsmConstellationLookup(t *testing.T) {
	c, subtype := msmConstellation(1084)
	require.Equal(t, ConstellationGLONASS, c)
	require.Equal(t, 4, subtype)

	c, subtype = msmConstellation(1001)
	require.Equal(t, ConstellationUnknown, c)
	require.Equal(t, 0, subtype)

	require.True(t, IsMSM(1127))
	require.False(t, IsMSM(1005))
}

func TestMsmSignalTypes(t *testing.T) {
	mask, err := parseBinary("10000000010000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, []string{"L1C", "L2P"}, msmSignalTypes(1077, mask))
}

func parseBinary(bits string) (uint32, error) {
	var v uint64
	for _, c := range bits {
		v <<= 1
		switch c {
		case '1':
			v |= 1
		case '0':
		default:
			return 0, fmt.Errorf("invalid bit %q", c)
		}
	}
	return uint32(v), nil
}

func TestMjd(t *testing.T) {
	// 2021-01-01T00:00:00Z is Unix timestamp 1609459200.
	require.Equal(t, uint64(59215), mjd(1609459200))
}

// buildMsmPayload writes a single-satellite, single-signal MSM7 GPS message
// body (message type 1077) with the given field values and returns the
// encoded payload bytes.
func buildMsm7Payload(t *testing.T) []byte {
	t.Helper()
	w := newBitWriter()
	w.writeUint(1077, 12) // message type
	w.writeUint(5, 12)    // station ID
	w.writeUint(12345, 30) // epoch time
	w.writeUint(0, 1)      // multiple message flag
	w.writeUint(0, 3)      // IODS
	w.writeUint(0, 7)      // reserved
	w.writeUint(0, 2)      // clock steering
	w.writeUint(0, 2)      // external clock
	w.writeUint(0, 1)      // divergence-free smoothing
	w.writeUint(0, 3)      // smoothing interval
	w.writeUint(1<<63, 64) // satellite mask: satellite 1 only
	w.writeUint(1<<31, 32) // signal mask: signal 1 only
	w.writeUint(1, 1)      // cell mask: the one cell is present

	// Satellite row (subtype 7): noIntMsRoughRange, extSatInfo, roughRangeMod1ms, roughPhaseRangeRate.
	w.writeUint(10, 8)
	w.writeUint(1, 4)
	w.writeUint(500, 10)
	w.writeInt(-100, 14)

	// Signal row (subtype 7).
	w.writeInt(12345, 20)
	w.writeInt(-6789, 24)
	w.writeUint(5, 10)
	w.writeUint(1, 1) // half-cycle ambiguity
	w.writeUint(40, 10)
	w.writeInt(-20, 15)

	return w.bytes()
}

func TestDecodeMsm7RoundTrip(t *testing.T) {
	payload := buildMsm7Payload(t)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, 1077, decoded.MessageType)
	require.NotNil(t, decoded.Header)
	require.Equal(t, ConstellationGPS, decoded.Header.Constellation)
	require.Equal(t, 7, decoded.Header.Subtype)
	require.Equal(t, uint64(5), decoded.Header.StationID)
	require.Equal(t, []int{1}, decoded.Header.Satellites)
	require.Equal(t, []int{1}, decoded.Header.Signals)
	require.Equal(t, 1, decoded.Header.NumCells)

	require.Len(t, decoded.SatelliteRows, 1)
	sat := decoded.SatelliteRows[0]
	require.Equal(t, 1, sat.SatelliteID)
	require.Equal(t, uint64(10), sat.NumIntegerMsRoughRange)
	require.Equal(t, uint64(1), sat.ExtendedSatelliteInfo)
	require.Equal(t, uint64(500), sat.RoughRangeMod1ms)
	require.Equal(t, int64(-100), sat.RoughPhaseRangeRate)

	require.Len(t, decoded.SignalRows, 1)
	sig := decoded.SignalRows[0]
	require.Equal(t, 1, sig.SatelliteID)
	require.Equal(t, 1, sig.SignalID)
	require.Equal(t, int64(12345), sig.FinePseudorange)
	require.Equal(t, int64(-6789), sig.FinePhaserange)
	require.Equal(t, uint64(5), sig.PhaserangeLockTimeIndicator)
	require.True(t, sig.HalfCycleAmbiguity)
	require.Equal(t, uint64(40), sig.CNR)
	require.Equal(t, int64(-20), sig.FinePhaserangeRate)
	require.True(t, sig.ExtendedResolution)
}

func TestDecodePositionMessage1006(t *testing.T) {
	w := newBitWriter()
	w.writeUint(1006, 12)
	w.writeUint(42, 12)   // station ID
	w.writeUint(2021, 6)  // ITRF realisation year (value wraps into 6 bits, fine for a round trip check)
	w.writeUint(0, 4)
	w.writeInt(15000000, 38)
	w.writeUint(0, 2)
	w.writeInt(-25000000, 38)
	w.writeUint(0, 2)
	w.writeInt(35000000, 38)
	w.writeUint(1234, 16) // antenna height

	decoded, err := Decode(w.bytes())
	require.NoError(t, err)
	require.Equal(t, 1006, decoded.MessageType)
	require.NotNil(t, decoded.Position)
	require.Equal(t, uint64(42), decoded.Position.StationID)
	require.True(t, decoded.Position.HasAntennaHeight)
	require.Equal(t, uint64(1234), decoded.Position.AntennaHeight)

	x, y, z := decoded.Position.ECEFMetres()
	require.InDelta(t, 1500.0, x, 1e-9)
	require.InDelta(t, -2500.0, y, 1e-9)
	require.InDelta(t, 3500.0, z, 1e-9)
}

func TestEncodeDecodeTextMessage(t *testing.T) {
	payload, err := EncodeTextMessage(7, "hello caster", 1609459200)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, 1029, decoded.MessageType)
	require.NotNil(t, decoded.Text)
	require.Equal(t, uint64(7), decoded.Text.StationID)
	require.Equal(t, "hello caster", decoded.Text.Text)
	require.Equal(t, uint64(59215), decoded.Text.ModifiedJulianDay)
}

func TestEncodeFrameSealsCRC(t *testing.T) {
	payload, err := EncodeTextMessage(1, "x", 1609459200)
	require.NoError(t, err)

	frame, err := EncodeFrame(payload)
	require.NoError(t, err)
	require.Equal(t, byte(0xD3), frame[0])

	length := int(frame[1]&0x03)<<8 | int(frame[2])
	require.Equal(t, len(payload), length)
	require.Len(t, frame, 3+len(payload)+3)
}

func TestDecodeObservationMessage1004(t *testing.T) {
	w := newBitWriter()
	w.writeUint(1004, 12)
	w.writeUint(3, 12)   // station ID
	w.writeUint(99999, 30) // tow
	w.writeUint(0, 1)      // sync flag
	w.writeUint(1, 5)      // one signal observed
	w.writeUint(0, 1)      // divergence-free smoothing
	w.writeUint(0, 3)      // smoothing interval

	w.writeUint(12, 6)      // satellite ID
	w.writeUint(1, 1)       // code flag
	w.writeUint(20000000, 24) // L1 pseudorange
	w.writeInt(-50000, 20)    // L1 phaserange-pseudorange diff
	w.writeUint(90, 7)        // L1 lock time indicator
	w.writeUint(3, 8)         // L1 pseudorange ambiguity
	w.writeUint(45, 8)        // L1 CNR
	w.writeUint(0, 1)         // L2 code flag
	w.writeUint(1000, 24)     // L2-L1 pseudorange diff
	w.writeInt(-200, 20)      // L2 phaserange-pseudorange diff
	w.writeUint(80, 7)        // L2 lock time indicator
	w.writeUint(40, 8)        // L2 CNR

	decoded, err := Decode(w.bytes())
	require.NoError(t, err)
	require.NotNil(t, decoded.Observations)
	require.Len(t, decoded.Observations.Rows, 1)
	row := decoded.Observations.Rows[0]
	require.Equal(t, uint64(12), row.SatelliteID)
	require.True(t, row.HasL2)
	require.True(t, row.HasAmbiguityAndCNR)
	require.Equal(t, uint64(20000000), row.L1Pseudorange)
	require.Equal(t, uint64(45), row.L1CNR)
	require.Equal(t, uint64(40), row.L2CNR)
}
