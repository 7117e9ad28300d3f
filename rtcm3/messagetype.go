package rtcm3

// Constellation identifies the GNSS system an MSM or observation message
// belongs to.
type Constellation int

const (
	ConstellationUnknown Constellation = iota
	ConstellationGPS
	ConstellationGLONASS
	ConstellationGalileo
	ConstellationSBAS
	ConstellationQZSS
	ConstellationBeiDou
)

func (c Constellation) String() string {
	switch c {
	case ConstellationGPS:
		return "GPS"
	case ConstellationGLONASS:
		return "GLONASS"
	case ConstellationGalileo:
		return "Galileo"
	case ConstellationSBAS:
		return "SBAS"
	case ConstellationQZSS:
		return "QZSS"
	case ConstellationBeiDou:
		return "BeiDou"
	default:
		return "unknown"
	}
}

// msmTypesByConstellation maps a constellation to its seven MSM message type
// numbers indexed by subtype 1-7 (index 0 unused).
var msmTypesByConstellation = map[Constellation][8]int{
	ConstellationGPS:     {0, 1071, 1072, 1073, 1074, 1075, 1076, 1077},
	ConstellationGLONASS: {0, 1081, 1082, 1083, 1084, 1085, 1086, 1087},
	ConstellationGalileo: {0, 1091, 1092, 1093, 1094, 1095, 1096, 1097},
	ConstellationSBAS:    {0, 1101, 1102, 1103, 1104, 1105, 1106, 1107},
	ConstellationQZSS:    {0, 1111, 1112, 1113, 1114, 1115, 1116, 1117},
	ConstellationBeiDou:  {0, 1121, 1122, 1123, 1124, 1125, 1126, 1127},
}

// msmConstellation returns the constellation and subtype (1-7) for an MSM
// message type, or (ConstellationUnknown, 0) if messageType is not an MSM.
func msmConstellation(messageType int) (Constellation, int) {
	for constellation, types := range msmTypesByConstellation {
		for subtype := 1; subtype <= 7; subtype++ {
			if types[subtype] == messageType {
				return constellation, subtype
			}
		}
	}
	return ConstellationUnknown, 0
}

// IsMSM reports whether messageType is one of the 42 MSM message types.
func IsMSM(messageType int) bool {
	c, _ := msmConstellation(messageType)
	return c != ConstellationUnknown
}

// signalNamesByConstellation maps each constellation to the 32 possible MSM
// signal names, indexed by signal ID 1-32 (index 0 unused); an empty string
// marks a reserved position. Grounded on RTCM 10403.3 Table 3.5-91 (GNSS
// Signal and Tracking Mode Indicator), one array per constellation.
var signalNamesByConstellation = map[Constellation][33]string{
	ConstellationGPS: {
		1: "L1C", 2: "L1P", 3: "L1W", 4: "L1Y", 5: "L1M", 6: "L1N",
		7: "L2C", 8: "L2D", 9: "L2S", 10: "L2P", 11: "L2W", 12: "L2Y",
		13: "L2M", 14: "L2N", 15: "L5I", 16: "L5Q", 17: "L5X",
		18: "L1S", 19: "L1L", 20: "L1X",
	},
	ConstellationGLONASS: {
		1: "L1C", 2: "L1P", 6: "L2C", 7: "L2P",
		11: "L3I", 12: "L3Q", 13: "L3X",
	},
	ConstellationGalileo: {
		1: "L1A", 2: "L1B", 3: "L1C", 4: "L1X", 5: "L1Z",
		7: "L5I", 8: "L5Q", 9: "L5X",
		11: "L7I", 12: "L7Q", 13: "L7X",
		15: "L8I", 16: "L8Q", 17: "L8X",
		19: "L6A", 20: "L6B", 21: "L6C", 22: "L6X", 23: "L6Z",
	},
	ConstellationSBAS: {
		1: "L1C", 24: "L5I", 25: "L5Q", 26: "L5X",
	},
	ConstellationQZSS: {
		1: "L1C", 4: "L1S", 5: "L1L", 6: "L1X",
		8: "L2S", 9: "L2L", 10: "L2X",
		12: "L5I", 13: "L5Q", 14: "L5X",
		15: "L6S", 16: "L6L", 17: "L6X", 18: "L6E",
		20: "L1Z",
	},
	ConstellationBeiDou: {
		1: "L2I", 2: "L2Q", 3: "L2X",
		6: "L6I", 7: "L6Q", 8: "L6X",
		11: "L7I", 12: "L7Q", 13: "L7X",
		16: "L1D", 17: "L1P", 18: "L1X",
		21: "L5D", 22: "L5P", 23: "L5X",
		24: "L7D", 25: "L7P", 26: "L7Z",
		27: "L8D", 28: "L8P", 29: "L8X",
	},
}

// msmSignalTypes returns the signal names for every set bit of signalMask,
// in ascending signal-ID order, for the constellation messageType belongs
// to. Reserved positions ("") are included like any other name; callers
// that want only named signals should filter those out themselves.
func msmSignalTypes(messageType int, signalMask uint32) []string {
	constellation, _ := msmConstellation(messageType)
	names := signalNamesByConstellation[constellation]

	var result []string
	for bit := 0; bit < 32; bit++ {
		if signalMask&(1<<uint(31-bit)) != 0 {
			result = append(result, names[bit+1])
		}
	}
	return result
}

// gpsObsTypes and glonassObsTypes list the legacy (non-MSM) GPS and GLONASS
// observation message types, indexed 1-4.
var gpsObsTypes = [5]int{0, 1001, 1002, 1003, 1004}
var glonassObsTypes = [5]int{0, 1009, 1010, 1011, 1012}

// messageDescription returns a short human-readable title for an RTCM3
// message type, following the teacher's getTitleAndComment table. Unknown
// types (including the proprietary 4001-4095 range) return a generic label.
func messageDescription(messageType int) string {
	if title, ok := messageTitles[messageType]; ok {
		return title
	}
	if messageType >= 4001 && messageType <= 4095 {
		return "Proprietary Message"
	}
	return "Unknown or Reserved Message"
}

var messageTitles = map[int]string{
	1001: "L1-Only GPS RTK Observables",
	1002: "Extended L1-Only GPS RTK Observables",
	1003: "L1 & L2 GPS RTK Observables",
	1004: "Extended L1 & L2 GPS RTK Observables",
	1005: "Stationary RTK Reference Station ARP",
	1006: "Stationary RTK Reference Station ARP with Antenna Height",
	1007: "Antenna Descriptor",
	1008: "Antenna Descriptor & Serial Number",
	1009: "L1-Only GLONASS RTK Observables",
	1010: "Extended L1-Only GLONASS RTK Observables",
	1011: "L1 & L2 GLONASS RTK Observables",
	1012: "Extended L1 & L2 GLONASS RTK Observables",
	1013: "System Parameters",
	1014: "Network Auxiliary Station Data",
	1015: "GPS Ionospheric Correction Differences",
	1016: "GPS Geometric Correction Differences",
	1017: "GPS Combined Geometric and Ionospheric Correction Differences",
	1019: "GPS Ephemerides",
	1020: "GLONASS Ephemerides",
	1021: "Helmert / Abridged Molodenski Transformation Parameters",
	1022: "Molodenski-Badekas Transformation Parameters",
	1023: "Residuals, Ellipsoidal Grid Representation",
	1024: "Residuals, Plane Grid Representation",
	1029: "Unicode Text String",
	1030: "GPS Network RTK Residual Message",
	1031: "GLONASS Network RTK Residual Message",
	1032: "Physical Reference Station Position Message",
	1033: "Receiver and Antenna Descriptors",
	1034: "GPS Network FKP Gradient",
	1035: "GLONASS Network FKP Gradient",
	1037: "GLONASS Ionospheric Correction Differences",
	1038: "GLONASS Geometric Correction Differences",
	1039: "GLONASS Combined Geometric and Ionospheric Correction Differences",
	1042: "BDS Satellite Ephemeris Data",
	1044: "QZSS Ephemerides",
	1045: "Galileo F/NAV Satellite Ephemeris Data",
	1046: "Galileo I/NAV Satellite Ephemeris Data",
	1057: "SSR GPS Orbit Correction",
	1058: "SSR GPS Clock Correction",
	1059: "SSR GPS Code Bias",
	1060: "SSR GPS Combined Orbit and Clock Corrections",
	1061: "SSR GPS URA",
	1062: "SSR GPS High Rate Clock Correction",
	1063: "SSR GLONASS Orbit Correction",
	1064: "SSR GLONASS Clock Correction",
	1065: "SSR GLONASS Code Bias",
	1066: "SSR GLONASS Combined Orbit and Clock Corrections",
	1067: "SSR GLONASS URA",
	1068: "SSR GLONASS High Rate Clock Correction",
	1071: "GPS MSM1", 1072: "GPS MSM2", 1073: "GPS MSM3", 1074: "GPS MSM4",
	1075: "GPS MSM5", 1076: "GPS MSM6", 1077: "GPS MSM7",
	1081: "GLONASS MSM1", 1082: "GLONASS MSM2", 1083: "GLONASS MSM3", 1084: "GLONASS MSM4",
	1085: "GLONASS MSM5", 1086: "GLONASS MSM6", 1087: "GLONASS MSM7",
	1091: "Galileo MSM1", 1092: "Galileo MSM2", 1093: "Galileo MSM3", 1094: "Galileo MSM4",
	1095: "Galileo MSM5", 1096: "Galileo MSM6", 1097: "Galileo MSM7",
	1101: "SBAS MSM1", 1102: "SBAS MSM2", 1103: "SBAS MSM3", 1104: "SBAS MSM4",
	1105: "SBAS MSM5", 1106: "SBAS MSM6", 1107: "SBAS MSM7",
	1111: "QZSS MSM1", 1112: "QZSS MSM2", 1113: "QZSS MSM3", 1114: "QZSS MSM4",
	1115: "QZSS MSM5", 1116: "QZSS MSM6", 1117: "QZSS MSM7",
	1121: "BeiDou MSM1", 1122: "BeiDou MSM2", 1123: "BeiDou MSM3", 1124: "BeiDou MSM4",
	1125: "BeiDou MSM5", 1126: "BeiDou MSM6", 1127: "BeiDou MSM7",
	1230: "GLONASS L1 and L2 Code-Phase Biases",
}
