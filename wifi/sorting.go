package wifi

import (
	"sort"
	"strings"
)

// SortScanResults sorts results in place.
// The sorting order is:
// 1. Strongest signal first.
// 2. Visible SSIDs before hidden ones.
// 3. Fallback to SSID, then BSSID alphabetically.
func SortScanResults(results []ScanResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a := results[i]
		b := results[j]

		if a.RSSI != b.RSSI {
			return a.RSSI > b.RSSI
		}
		if a.Hidden != b.Hidden {
			return !a.Hidden
		}
		if a.SSID != b.SSID {
			return a.SSID < b.SSID
		}
		return a.BSSID < b.BSSID
	})
}

// FillQuality sets Quality on every result from its RSSI.
func FillQuality(results []ScanResult) {
	for i := range results {
		results[i].Quality = DBMToQuality(results[i].RSSI)
	}
}

// FindBSSID returns the result with the given BSSID, compared case-insensitively.
func FindBSSID(results []ScanResult, bssid string) (ScanResult, bool) {
	for _, r := range results {
		if strings.EqualFold(r.BSSID, bssid) {
			return r, true
		}
	}
	return ScanResult{}, false
}
