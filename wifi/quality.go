package wifi

// DBMToQuality maps a signal level in dBm to a 0-100 quality percentage.
func DBMToQuality(dbm int) int {
	switch {
	case dbm <= -100:
		return 0
	case dbm >= -50:
		return 100
	}
	return 2 * (dbm + 100)
}

// QualityToDBM maps a 0-100 quality percentage back to dBm, within [-100, -50].
func QualityToDBM(quality int) int {
	switch {
	case quality <= 0:
		return -100
	case quality >= 100:
		return -50
	}
	return quality/2 - 100
}

// ChannelFromFrequency converts a center frequency in MHz to a channel number.
// Unknown frequencies map to 0.
func ChannelFromFrequency(mhz uint32) int {
	switch {
	case mhz == 2484:
		return 14
	case mhz >= 2412 && mhz < 2484:
		return int(mhz-2407) / 5
	case mhz >= 5000 && mhz < 5900:
		return int(mhz-5000) / 5
	case mhz >= 5955 && mhz < 7125:
		return int(mhz-5950) / 5
	}
	return 0
}
