package rtcm3

import "fmt"

// ObservationHeader is the common header shared by the legacy (pre-MSM) GPS
// messages 1001-1004 and GLONASS messages 1009-1012, grounded on the
// __msg1001_4Head / __msg1009_12Head format strings in the original Python
// rtcm3 module.
type ObservationHeader struct {
	MessageType               int
	Constellation              Constellation
	StationID                  uint64
	Timestamp                  uint64 // tow (GPS, 30 bits) or epochTime (GLONASS, 27 bits)
	SynchronousGNSSFlag        bool
	NumSignalsObserved         uint64
	DivergenceFreeSmoothing    bool
	SmoothingInterval          uint64
}

// ObservationRow is one satellite's observation row. L2 fields are only
// populated for message types 1003/1004/1011/1012 (HasL2 set); ambiguity and
// CNR are only populated for 1002/1004/1010/1012 (HasAmbiguityAndCNR set).
type ObservationRow struct {
	SatelliteID                    uint64
	CodeFlag                       bool
	FrequencyChannel                uint64 // GLONASS only
	HasFrequencyChannel              bool
	L1Pseudorange                   uint64
	L1PhaserangePseudorangeDiff      int64
	L1LockTimeIndicator              uint64
	L1PseudorangeAmbiguity           uint64
	L1CNR                            uint64
	HasAmbiguityAndCNR               bool
	L2CodeFlag                       bool
	L2PseudorangeDiff                uint64
	L2PhaserangePseudorangeDiff      int64
	L2LockTimeIndicator              uint64
	L2CNR                            uint64
	HasL2                            bool
}

// ObservationMessage is the decoded form of messages 1001-1004 and 1009-1012.
type ObservationMessage struct {
	Header ObservationHeader
	Rows   []ObservationRow
}

func decodeObservationMessage(r *bitReader, messageType int) (*ObservationMessage, error) {
	var constellation Constellation
	var timestampWidth uint = 30
	switch {
	case messageType >= 1001 && messageType <= 1004:
		constellation = ConstellationGPS
	case messageType >= 1009 && messageType <= 1012:
		constellation = ConstellationGLONASS
		timestampWidth = 27
	default:
		return nil, fmt.Errorf("rtcm3: message type %d is not a legacy observation message", messageType)
	}

	msg := &ObservationMessage{Header: ObservationHeader{MessageType: messageType, Constellation: constellation}}
	h := &msg.Header

	var err error
	if h.StationID, err = r.Uint(12); err != nil {
		return nil, err
	}
	if h.Timestamp, err = r.Uint(timestampWidth); err != nil {
		return nil, err
	}
	if h.SynchronousGNSSFlag, err = r.Bool(); err != nil {
		return nil, err
	}
	if h.NumSignalsObserved, err = r.Uint(5); err != nil {
		return nil, err
	}
	if h.DivergenceFreeSmoothing, err = r.Bool(); err != nil {
		return nil, err
	}
	if h.SmoothingInterval, err = r.Uint(3); err != nil {
		return nil, err
	}

	hasL2 := messageType == 1003 || messageType == 1004 || messageType == 1011 || messageType == 1012
	hasAmbiguityAndCNR := messageType == 1002 || messageType == 1004 || messageType == 1010 || messageType == 1012

	for i := uint64(0); i < h.NumSignalsObserved; i++ {
		row := ObservationRow{HasL2: hasL2, HasAmbiguityAndCNR: hasAmbiguityAndCNR}

		if row.SatelliteID, err = r.Uint(6); err != nil {
			return nil, err
		}
		if row.CodeFlag, err = r.Bool(); err != nil {
			return nil, err
		}
		if constellation == ConstellationGLONASS {
			if row.FrequencyChannel, err = r.Uint(5); err != nil {
				return nil, err
			}
			row.HasFrequencyChannel = true
		}
		if row.L1Pseudorange, err = r.Uint(24); err != nil {
			return nil, err
		}
		if row.L1PhaserangePseudorangeDiff, err = r.Int(20); err != nil {
			return nil, err
		}
		if row.L1LockTimeIndicator, err = r.Uint(7); err != nil {
			return nil, err
		}
		if hasAmbiguityAndCNR {
			if row.L1PseudorangeAmbiguity, err = r.Uint(8); err != nil {
				return nil, err
			}
			if row.L1CNR, err = r.Uint(8); err != nil {
				return nil, err
			}
		}
		if hasL2 {
			if row.L2CodeFlag, err = r.Bool(); err != nil {
				return nil, err
			}
			if row.L2PseudorangeDiff, err = r.Uint(24); err != nil {
				return nil, err
			}
			if row.L2PhaserangePseudorangeDiff, err = r.Int(20); err != nil {
				return nil, err
			}
			if row.L2LockTimeIndicator, err = r.Uint(7); err != nil {
				return nil, err
			}
			if hasAmbiguityAndCNR {
				if row.L2CNR, err = r.Uint(8); err != nil {
					return nil, err
				}
			}
		}

		msg.Rows = append(msg.Rows, row)
	}

	return msg, nil
}
