package rtcm3

import (
	"fmt"

	"github.com/bedrocksolutions/ntripgo/crc24q"
)

// DecodedMessage is the result of decoding one RTCM3 message payload (the
// bytes between the frame's length field and its CRC). Exactly one of
// Observations, Position, Text or (Header, SatelliteRows, SignalRows) is
// populated, depending on MessageType.
type DecodedMessage struct {
	MessageType   int
	Header        *MsmHeader
	SatelliteRows []SatelliteRow
	SignalRows    []SignalRow
	Observations  *ObservationMessage
	Position      *PositionMessage
	Text          *TextMessage
}

// Description returns a short human-readable title for the message's type.
func (d *DecodedMessage) Description() string {
	return messageDescription(d.MessageType)
}

// Decode decodes a single RTCM3 message payload (no preamble, length field or
// CRC - the framer returns whole frames, so callers strip the three leader
// bytes and three CRC bytes first). The message type is always the first 12
// bits of payload.
func Decode(payload []byte) (*DecodedMessage, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("rtcm3: payload of %d bytes too short to contain a message type", len(payload))
	}

	r := newBitReader(payload)
	messageTypeU, err := r.Uint(12)
	if err != nil {
		return nil, err
	}
	messageType := int(messageTypeU)

	switch {
	case messageType == 1005 || messageType == 1006:
		pos, err := decodePositionMessage(r, messageType)
		if err != nil {
			return nil, err
		}
		return &DecodedMessage{MessageType: messageType, Position: pos}, nil

	case messageType == 1029:
		text, err := decodeTextMessage(r)
		if err != nil {
			return nil, err
		}
		return &DecodedMessage{MessageType: messageType, Text: text}, nil

	case (messageType >= 1001 && messageType <= 1004) || (messageType >= 1009 && messageType <= 1012):
		obs, err := decodeObservationMessage(r, messageType)
		if err != nil {
			return nil, err
		}
		return &DecodedMessage{MessageType: messageType, Observations: obs}, nil

	case IsMSM(messageType):
		header, err := decodeMsmHeader(r, messageType)
		if err != nil {
			return nil, err
		}
		satRows, err := decodeSatelliteRows(r, header)
		if err != nil {
			return nil, err
		}
		sigRows, err := decodeSignalRows(r, header)
		if err != nil {
			return nil, err
		}
		return &DecodedMessage{
			MessageType:   messageType,
			Header:        header,
			SatelliteRows: satRows,
			SignalRows:    sigRows,
		}, nil

	default:
		return nil, fmt.Errorf("rtcm3: decoding of message type %d (%s) is not supported",
			messageType, messageDescription(messageType))
	}
}

// EncodeFrame seals a message payload into a complete RTCM3 frame: the 0xD3
// preamble, six reserved zero bits, the 10-bit payload length, the payload
// itself and the trailing CRC-24Q.
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) > 1023 {
		return nil, fmt.Errorf("rtcm3: payload of %d bytes exceeds the 10-bit length field", len(payload))
	}

	frame := make([]byte, 0, 3+len(payload)+3)
	frame = append(frame, 0xD3)
	frame = append(frame, byte(len(payload)>>8)&0x03, byte(len(payload)))
	frame = append(frame, payload...)

	crc := crc24q.CRC24Q(frame)
	frame = append(frame, byte(crc>>16), byte(crc>>8), byte(crc))

	return frame, nil
}
