package rtcm3

import (
	"fmt"
	"time"
)

// TextMessage is the decoded form of message 1029 (Unicode Text String),
// grounded on the __msg1029 format string in the original Python rtcm3
// module. It is typically used by a caster to broadcast a short operator
// message alongside the observation stream.
type TextMessage struct {
	StationID       uint64
	ModifiedJulianDay uint64
	UTCSecondsOfDay uint64
	NumCharacters   uint64 // number of UTF-8 characters in Text
	NumBytes        uint64 // number of bytes Text occupies on the wire
	Text            string
}

// mjd converts a Unix timestamp to a Modified Julian Day, per spec.md's
// mjd(u) = floor(u/86400) + 40587.
func mjd(unixTimestamp int64) uint64 {
	return uint64(unixTimestamp/86400) + 40587
}

func decodeTextMessage(r *bitReader) (*TextMessage, error) {
	msg := &TextMessage{}
	var err error

	if msg.StationID, err = r.Uint(12); err != nil {
		return nil, err
	}
	if msg.ModifiedJulianDay, err = r.Uint(16); err != nil {
		return nil, err
	}
	if msg.UTCSecondsOfDay, err = r.Uint(17); err != nil {
		return nil, err
	}
	if msg.NumCharacters, err = r.Uint(7); err != nil {
		return nil, err
	}
	if msg.NumBytes, err = r.Uint(8); err != nil {
		return nil, err
	}
	raw, err := r.Bytes(uint(msg.NumBytes))
	if err != nil {
		return nil, err
	}
	msg.Text = string(raw)

	return msg, nil
}

// EncodeTextMessage builds the payload of a message 1029 (without the
// preamble, length field or CRC - EncodeFrame adds those). stationID and text
// are required; a zero unixTimestamp defaults to the current wall-clock time.
func EncodeTextMessage(stationID uint64, text string, unixTimestamp int64) ([]byte, error) {
	if unixTimestamp == 0 {
		unixTimestamp = time.Now().Unix()
	}

	runeCount := uint64(len([]rune(text)))
	textBytes := []byte(text)

	if stationID > 0xFFF {
		return nil, fmt.Errorf("rtcm3: station ID %d exceeds 12 bits", stationID)
	}
	if runeCount > 0x7F {
		return nil, fmt.Errorf("rtcm3: text %q exceeds 127 characters", text)
	}
	if len(textBytes) > 0xFF {
		return nil, fmt.Errorf("rtcm3: text %q exceeds 255 bytes", text)
	}

	w := newBitWriter()
	w.writeUint(1029, 12)
	w.writeUint(stationID, 12)
	w.writeUint(mjd(unixTimestamp), 16)
	w.writeUint(uint64(unixTimestamp%86400), 17)
	w.writeUint(runeCount, 7)
	w.writeUint(uint64(len(textBytes)), 8)
	w.writeBytes(textBytes)

	return w.bytes(), nil
}
