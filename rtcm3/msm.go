package rtcm3

import "fmt"

// MsmHeader is the common 169-bit-plus-cellmask header shared by all 42 MSM
// message types, grounded on the teacher's rtcm/header.Header and on the
// __msgMsmHead format string in the original Python rtcm3 module. For
// GLONASS MSM (1081-1087), the raw 30-bit epoch is reparsed as
// (dayOfWeek:3, tod:27); EpochTime holds tod and GlonassDayOfWeek holds the
// day of week, zero for every other constellation.
type MsmHeader struct {
	MessageType              int
	Constellation            Constellation
	Subtype                  int
	StationID                uint64
	EpochTime                uint64
	GlonassDayOfWeek         uint64
	MultipleMessageBit       bool
	IssueOfDataStation       uint64
	ClockSteeringIndicator   uint64
	ExternalClockIndicator   uint64
	DivergenceFreeSmoothing  bool
	SmoothingInterval        uint64
	SatelliteMask            uint64
	SignalMask               uint32
	CellMask                 uint64
	Satellites               []int
	Signals                  []int
	NumCells                 int
}

// SatelliteRow is one per-satellite row of an MSM body. Which fields are
// populated depends on the subtype: RoughRangeMod1ms is always present;
// NumIntegerMsRoughRange is present from subtype 4 onward; ExtendedInfo and
// RoughPhaseRangeRate only for subtypes 5 and 7.
type SatelliteRow struct {
	SatelliteID            int
	NumIntegerMsRoughRange uint64
	ExtendedSatelliteInfo  uint64
	RoughRangeMod1ms       uint64
	RoughPhaseRangeRate    int64
	hasIntegerMs           bool
	hasPhaseRangeRate      bool
}

// SignalRow is one per-cell row of an MSM body, one per set bit of the cell
// mask. Presence of each field depends on subtype; HasX flags tell a caller
// which fields were decoded instead of silently returning zero values.
type SignalRow struct {
	SatelliteID                int
	SignalID                   int
	FinePseudorange            int64
	HasFinePseudorange         bool
	FinePhaserange             int64
	HasFinePhaserange          bool
	PhaserangeLockTimeIndicator uint64
	HalfCycleAmbiguity          bool
	HasPhaserangeFields         bool
	CNR                         uint64
	HasCNR                      bool
	FinePhaserangeRate          int64
	HasFinePhaserangeRate       bool
	ExtendedResolution          bool
}

// decodeMsmHeader reads the header fields shared by every MSM message,
// including the variable-width cell mask, and derives the satellite and
// signal ID lists from the two mask fields.
func decodeMsmHeader(r *bitReader, messageType int) (*MsmHeader, error) {
	constellation, subtype := msmConstellation(messageType)
	if constellation == ConstellationUnknown {
		return nil, fmt.Errorf("rtcm3: message type %d is not an MSM", messageType)
	}

	h := &MsmHeader{MessageType: messageType, Constellation: constellation, Subtype: subtype}

	var err error
	if h.StationID, err = r.Uint(12); err != nil {
		return nil, err
	}
	rawEpoch, err := r.Uint(30)
	if err != nil {
		return nil, err
	}
	if messageType >= 1081 && messageType <= 1087 {
		h.GlonassDayOfWeek = rawEpoch >> 27
		h.EpochTime = rawEpoch & 0x7FFFFFF
	} else {
		h.EpochTime = rawEpoch
	}
	if h.MultipleMessageBit, err = r.Bool(); err != nil {
		return nil, err
	}
	if h.IssueOfDataStation, err = r.Uint(3); err != nil {
		return nil, err
	}
	if err = r.Skip(7); err != nil {
		return nil, err
	}
	if h.ClockSteeringIndicator, err = r.Uint(2); err != nil {
		return nil, err
	}
	if h.ExternalClockIndicator, err = r.Uint(2); err != nil {
		return nil, err
	}
	if h.DivergenceFreeSmoothing, err = r.Bool(); err != nil {
		return nil, err
	}
	if h.SmoothingInterval, err = r.Uint(3); err != nil {
		return nil, err
	}
	if h.SatelliteMask, err = r.Uint(64); err != nil {
		return nil, err
	}
	signalMask, err := r.Uint(32)
	if err != nil {
		return nil, err
	}
	h.SignalMask = uint32(signalMask)

	for bit := 0; bit < 64; bit++ {
		if h.SatelliteMask&(1<<uint(63-bit)) != 0 {
			h.Satellites = append(h.Satellites, bit+1)
		}
	}
	for bit := 0; bit < 32; bit++ {
		if h.SignalMask&(1<<uint(31-bit)) != 0 {
			h.Signals = append(h.Signals, bit+1)
		}
	}

	cellBits := len(h.Satellites) * len(h.Signals)
	if cellBits > 64 {
		return nil, fmt.Errorf("rtcm3: cell mask of %d bits exceeds 64-bit limit", cellBits)
	}
	var cellMask uint64
	if cellBits > 0 {
		if cellMask, err = r.Uint(uint(cellBits)); err != nil {
			return nil, err
		}
	}
	h.CellMask = cellMask
	h.NumCells = popcount64(cellMask, cellBits)

	return h, nil
}

// popcount64 counts set bits among the low n bits of v.
func popcount64(v uint64, n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if v&(1<<uint(n-1-i)) != 0 {
			count++
		}
	}
	return count
}

// decodeSatelliteRows reads one row per satellite named in header.Satellites.
// The fields present depend on subtype, per the __msgMsm123Sat /
// __msgMsm46Sat / __msgMsm57Sat format strings in the original Python module.
func decodeSatelliteRows(r *bitReader, h *MsmHeader) ([]SatelliteRow, error) {
	rows := make([]SatelliteRow, 0, len(h.Satellites))
	for _, satID := range h.Satellites {
		row := SatelliteRow{SatelliteID: satID}
		var err error
		if h.Subtype >= 4 {
			if row.NumIntegerMsRoughRange, err = r.Uint(8); err != nil {
				return nil, err
			}
			row.hasIntegerMs = true
		}
		if h.Subtype == 5 || h.Subtype == 7 {
			if row.ExtendedSatelliteInfo, err = r.Uint(4); err != nil {
				return nil, err
			}
		}
		if row.RoughRangeMod1ms, err = r.Uint(10); err != nil {
			return nil, err
		}
		if h.Subtype == 5 || h.Subtype == 7 {
			if row.RoughPhaseRangeRate, err = r.Int(14); err != nil {
				return nil, err
			}
			row.hasPhaseRangeRate = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeSignalRows reads one row per set cell-mask bit. Cells are enumerated
// in the cell mask's bit order: satellite-major, signal-minor, matching the
// order the mask itself was transmitted in - this builds each row directly
// during the single read pass instead of reading per-parameter columns and
// transposing afterwards.
func decodeSignalRows(r *bitReader, h *MsmHeader) ([]SignalRow, error) {
	numSignals := len(h.Signals)
	rows := make([]SignalRow, 0, h.NumCells)

	for satIdx, satID := range h.Satellites {
		for sigIdx, sigID := range h.Signals {
			bitIndex := satIdx*numSignals + sigIdx
			totalBits := len(h.Satellites) * numSignals
			if h.CellMask&(1<<uint(totalBits-1-bitIndex)) == 0 {
				continue
			}

			row := SignalRow{SatelliteID: satID, SignalID: sigID}
			var err error

			switch h.Subtype {
			case 1:
				if row.FinePseudorange, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
			case 2:
				if err = decodePhaserangeFields(r, &row, 22, 4); err != nil {
					return nil, err
				}
			case 3:
				if row.FinePseudorange, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
				if err = decodePhaserangeFields(r, &row, 22, 4); err != nil {
					return nil, err
				}
			case 4:
				if row.FinePseudorange, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
				if err = decodePhaserangeFields(r, &row, 22, 4); err != nil {
					return nil, err
				}
				if row.CNR, err = r.Uint(6); err != nil {
					return nil, err
				}
				row.HasCNR = true
			case 5:
				if row.FinePseudorange, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
				if err = decodePhaserangeFields(r, &row, 22, 4); err != nil {
					return nil, err
				}
				if row.CNR, err = r.Uint(6); err != nil {
					return nil, err
				}
				row.HasCNR = true
				if row.FinePhaserangeRate, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePhaserangeRate = true
			case 6:
				if row.FinePseudorange, err = r.Int(20); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
				row.ExtendedResolution = true
				if err = decodePhaserangeFields(r, &row, 24, 10); err != nil {
					return nil, err
				}
				if row.CNR, err = r.Uint(10); err != nil {
					return nil, err
				}
				row.HasCNR = true
			case 7:
				if row.FinePseudorange, err = r.Int(20); err != nil {
					return nil, err
				}
				row.HasFinePseudorange = true
				row.ExtendedResolution = true
				if err = decodePhaserangeFields(r, &row, 24, 10); err != nil {
					return nil, err
				}
				if row.CNR, err = r.Uint(10); err != nil {
					return nil, err
				}
				row.HasCNR = true
				if row.FinePhaserangeRate, err = r.Int(15); err != nil {
					return nil, err
				}
				row.HasFinePhaserangeRate = true
			default:
				return nil, fmt.Errorf("rtcm3: unsupported MSM subtype %d", h.Subtype)
			}

			rows = append(rows, row)
		}
	}
	return rows, nil
}

// decodePhaserangeFields reads the fine-phaserange/lock-time/half-cycle
// triple shared by subtypes 2-7, whose phaserange and lock-time-indicator
// widths widen in the extended-resolution subtypes 6 and 7.
func decodePhaserangeFields(r *bitReader, row *SignalRow, phaserangeWidth, lockWidth uint) error {
	var err error
	if row.FinePhaserange, err = r.Int(phaserangeWidth); err != nil {
		return err
	}
	row.HasFinePhaserange = true
	if row.PhaserangeLockTimeIndicator, err = r.Uint(lockWidth); err != nil {
		return err
	}
	if row.HalfCycleAmbiguity, err = r.Bool(); err != nil {
		return err
	}
	row.HasPhaserangeFields = true
	return nil
}
