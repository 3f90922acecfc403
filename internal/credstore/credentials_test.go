package credstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	netA = NetworkCredential{SSID: "A", Password: "a-pass"}
	netB = NetworkCredential{SSID: "B", Password: "b-pass"}
	netC = NetworkCredential{SSID: "C", Password: "c-pass"}
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing Credentials
		incoming Credentials
		want     []string
	}{
		{"empty existing", Credentials{}, SingleCredential(netA), []string{"A"}},
		{"single + single", SingleCredential(netA), SingleCredential(netB), []string{"A", "B"}},
		{"single + list", SingleCredential(netA), ManyCredentials(netB, netC), []string{"A", "B", "C"}},
		{"list + single", ManyCredentials(netA, netB), SingleCredential(netC), []string{"A", "B", "C"}},
		{"list + list", ManyCredentials(netA), ManyCredentials(netB, netC), []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.existing, tt.incoming)
			assert.Equal(t, tt.want, got.SSIDs())
		})
	}

	assert.True(t, Merge(Credentials{}, SingleCredential(netA)).IsSingle())
	assert.False(t, Merge(SingleCredential(netA), SingleCredential(netB)).IsSingle())
}

func TestCredentialsJSON(t *testing.T) {
	single, err := json.Marshal(SingleCredential(netA))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ssid":"A","password":"a-pass"}`, string(single))

	many, err := json.Marshal(ManyCredentials(netA, netB))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ssid":"A","password":"a-pass"},{"ssid":"B","password":"b-pass"}]`, string(many))

	empty, err := json.Marshal(Credentials{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		single bool
		want   []string
	}{
		{"object", `{"ssid":"A","password":"x"}`, true, []string{"A"}},
		{"array", `[{"ssid":"A","password":"x"},{"ssid":"B","password":"y"}]`, false, []string{"A", "B"}},
		{"legacy repr", `{'ssid': 'A', 'password': 'x'}`, true, []string{"A"}},
		{"legacy repr list", `[{'ssid': 'A', 'password': 'x'}, {'ssid': 'B', 'password': 'y'}]`, false, []string{"A", "B"}},
		{"entry without ssid dropped", `[{"password":"x"},{"ssid":"B","password":"y"}]`, false, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCredentials(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.single, got.IsSingle())
			assert.Equal(t, tt.want, got.SSIDs())
		})
	}

	for _, bad := range []string{"", "42", `"ssid"`, "{not json"} {
		_, err := ParseCredentials(bad)
		assert.ErrorIs(t, err, ErrCorruptCredentials, "input %q", bad)
	}
}

func TestWithout(t *testing.T) {
	c := ManyCredentials(netA, netB, netC, NetworkCredential{SSID: "B", Password: "other"})
	got := c.Without("B")
	assert.Equal(t, []string{"A", "C"}, got.SSIDs())
	assert.False(t, got.IsSingle())
}
