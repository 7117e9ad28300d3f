package rtcm3

import "fmt"

// PositionMessage is the decoded form of message 1005 (Stationary RTK
// Reference Station ARP) or 1006 (the same, with antenna height), grounded
// on rtcm/type1005 and rtcm/type1006 in the teacher.
type PositionMessage struct {
	MessageType         int
	StationID           uint64
	ITRFRealisationYear uint64
	AntennaRefX         int64 // ECEF X, 0.0001 m units
	AntennaRefY         int64 // ECEF Y, 0.0001 m units
	AntennaRefZ         int64 // ECEF Z, 0.0001 m units
	AntennaHeight       uint64 // present only when MessageType == 1006
	HasAntennaHeight    bool
}

// ECEFMetres converts the scaled integer antenna reference coordinates to
// metres.
func (m *PositionMessage) ECEFMetres() (x, y, z float64) {
	const scale = 0.0001
	return float64(m.AntennaRefX) * scale, float64(m.AntennaRefY) * scale, float64(m.AntennaRefZ) * scale
}

func decodePositionMessage(r *bitReader, messageType int) (*PositionMessage, error) {
	if messageType != 1005 && messageType != 1006 {
		return nil, fmt.Errorf("rtcm3: message type %d is not a position message", messageType)
	}

	msg := &PositionMessage{MessageType: messageType}
	var err error

	if msg.StationID, err = r.Uint(12); err != nil {
		return nil, err
	}
	if msg.ITRFRealisationYear, err = r.Uint(6); err != nil {
		return nil, err
	}
	if err = r.Skip(4); err != nil { // single-base/GPS/GLONASS/reference-station indicator bits, unused
		return nil, err
	}
	if msg.AntennaRefX, err = r.Int(38); err != nil {
		return nil, err
	}
	if err = r.Skip(2); err != nil { // quarter-cycle-indicator bits, unused
		return nil, err
	}
	if msg.AntennaRefY, err = r.Int(38); err != nil {
		return nil, err
	}
	if err = r.Skip(2); err != nil {
		return nil, err
	}
	if msg.AntennaRefZ, err = r.Int(38); err != nil {
		return nil, err
	}

	if messageType == 1006 {
		if msg.AntennaHeight, err = r.Uint(16); err != nil {
			return nil, err
		}
		msg.HasAntennaHeight = true
	}

	return msg, nil
}
