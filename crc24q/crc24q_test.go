package crc24q

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenLookupKnownEntries(t *testing.T) {
	table := GenLookup()
	require.Equal(t, uint32(0x000000), table[0])
	require.Equal(t, uint32(0x864CFB), table[1])
	require.Equal(t, uint32(0x5BC9C3), table[254])
	require.Equal(t, uint32(0xDD8538), table[255])
}

func TestCRC24QSampleFrame(t *testing.T) {
	frame, err := hex.DecodeString("D300133ED7D30202980EDEEF34B4BD62AC0941986F33360B98")
	require.NoError(t, err)

	payload := frame[:len(frame)-3]
	want := uint32(frame[len(frame)-3])<<16 | uint32(frame[len(frame)-2])<<8 | uint32(frame[len(frame)-1])

	require.Equal(t, want, CRC24Q(payload))
}

func TestCRC24QBitsByteAligned(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	require.Equal(t, CRC24Q(data), CRC24QBits(data, len(data)*8))
}

func TestCRC24QBitsNonByteAligned(t *testing.T) {
	// Same bits as TestCRC24QBitsByteAligned but truncated mid-byte: the
	// trailing nibble of the last byte is dropped from the computation.
	data := []byte{0x01, 0x02, 0x03, 0x04}
	truncated := []byte{0x01, 0x02, 0x03, 0x04 & 0xF0}
	require.Equal(t, CRC24QBits(truncated, 28), CRC24QBits(data, 28))
}

func TestNMEAChecksum(t *testing.T) {
	sentence := "$GPGGA,092751.000,5321.6802,N,00630.3371,W,1,8,1.03,61.7,M,55.3,M,,*75"
	require.Equal(t, byte(0x75), NMEAChecksum(sentence))
}

func TestNMEAChecksumWithoutDelimiters(t *testing.T) {
	full := "$GPGGA,092751.000,5321.6802,N,00630.3371,W,1,8,1.03,61.7,M,55.3,M,,*75"
	bare := "GPGGA,092751.000,5321.6802,N,00630.3371,W,1,8,1.03,61.7,M,55.3,M,,"
	require.Equal(t, NMEAChecksum(full), NMEAChecksum(bare))
}
