package wifi

import "testing"

func TestDBMToQuality(t *testing.T) {
	tests := []struct {
		dbm  int
		want int
	}{
		{-120, 0},
		{-100, 0},
		{-99, 2},
		{-75, 50},
		{-51, 98},
		{-50, 100},
		{-20, 100},
	}
	for _, tt := range tests {
		if got := DBMToQuality(tt.dbm); got != tt.want {
			t.Errorf("DBMToQuality(%d) = %d, want %d", tt.dbm, got, tt.want)
		}
	}
}

func TestQualityToDBM(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{-5, -100},
		{0, -100},
		{50, -75},
		{99, -51},
		{100, -50},
		{150, -50},
	}
	for _, tt := range tests {
		if got := QualityToDBM(tt.quality); got != tt.want {
			t.Errorf("QualityToDBM(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestQualityRoundTrip(t *testing.T) {
	for dbm := -100; dbm <= -50; dbm++ {
		if got := QualityToDBM(DBMToQuality(dbm)); got != dbm {
			t.Errorf("QualityToDBM(DBMToQuality(%d)) = %d", dbm, got)
		}
	}
}

func TestChannelFromFrequency(t *testing.T) {
	tests := []struct {
		mhz  uint32
		want int
	}{
		{2412, 1},
		{2437, 6},
		{2462, 11},
		{2484, 14},
		{5180, 36},
		{5745, 149},
		{900, 0},
	}
	for _, tt := range tests {
		if got := ChannelFromFrequency(tt.mhz); got != tt.want {
			t.Errorf("ChannelFromFrequency(%d) = %d, want %d", tt.mhz, got, tt.want)
		}
	}
}
