package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifimgr/wifimgr/internal/config"
	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/internal/manager"
	"github.com/wifimgr/wifimgr/internal/sightings"
	"github.com/wifimgr/wifimgr/wifi"
	"github.com/wifimgr/wifimgr/wifi/mock"
)

var testDeviceID = []byte{0xde, 0xad, 0xbe, 0xef}

func newTestAdapter() *mock.MockAdapter {
	a := mock.New()
	a.ActionSleep = 0
	a.Randomize = false
	a.ConnectAfterPolls = 1
	a.AccessPointAfterPolls = 1
	a.Networks = []wifi.ScanResult{
		{SSID: "Cafe", BSSID: "02:00:00:00:00:02", Channel: 11, RSSI: -80, AuthMode: wifi.AuthOpen},
		{SSID: "Home", BSSID: "02:00:00:00:00:01", Channel: 6, RSSI: -60, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "", BSSID: "02:00:00:00:00:03", Channel: 1, RSSI: -90, AuthMode: wifi.AuthWPA2PSK, Hidden: true},
	}
	a.Secrets = map[string]string{"Home": "hunter22"}
	return a
}

func newTestStore(t *testing.T) *credstore.Store {
	t.Helper()
	c, err := credstore.NewDeviceCipher(testDeviceID)
	require.NoError(t, err)
	store, err := credstore.New(credstore.Options{Path: "wifi-secure.json", Cipher: c, Persistence: credstore.NewMemory()})
	require.NoError(t, err)
	return store
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.DefaultAppConfig
	cfg.ConnectTimeout = 3 * time.Second
	cfg.APTimeout = time.Second
	return &app{
		cfg:      &cfg,
		logger:   nil,
		deviceID: testDeviceID,
		store:    newTestStore(t),
		adapter:  newTestAdapter(),
	}
}

func TestRunList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runList(&buf, false, newTestAdapter()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Home\t80%, ch 6, WPA2-PSK",
		"Cafe\t40%, ch 11, open",
		"(hidden)\t20%, ch 1, WPA2-PSK, hidden",
	}, lines)
}

func TestRunListJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runList(&buf, true, newTestAdapter()))

	var entries []listEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "Home", entries[0].SSID)
	assert.Equal(t, "WPA2-PSK", entries[0].AuthMode)
	assert.Equal(t, 80, entries[0].Quality)
}

func TestRunListNoAccessPoints(t *testing.T) {
	a := newTestAdapter()
	a.Networks = nil
	var buf bytes.Buffer
	require.NoError(t, runList(&buf, false, a))
	assert.Empty(t, buf.String())
}

func TestRunListScanError(t *testing.T) {
	a := newTestAdapter()
	a.ScanError = wifi.ErrWirelessDisabled
	assert.ErrorIs(t, runList(&bytes.Buffer{}, false, a), wifi.ErrWirelessDisabled)
}

func TestRunAddNetworksForget(t *testing.T) {
	store := newTestStore(t)
	var buf bytes.Buffer

	require.NoError(t, runNetworks(&buf, store))
	assert.Contains(t, buf.String(), "no saved networks")

	buf.Reset()
	require.NoError(t, runAdd(&buf, store, "Home", "hunter22"))
	require.NoError(t, runAdd(&buf, store, "Cafe", ""))
	assert.Equal(t, "saved Home\nsaved Cafe\n", buf.String())

	buf.Reset()
	require.NoError(t, runNetworks(&buf, store))
	assert.Equal(t, "Home\nCafe\n", buf.String())

	buf.Reset()
	require.NoError(t, runForget(&buf, store, []string{"Home"}))
	assert.Equal(t, "forgot Home\n", buf.String())

	buf.Reset()
	require.NoError(t, runNetworks(&buf, store))
	assert.Equal(t, "Cafe\n", buf.String())
}

func TestRunAddRequiresSSID(t *testing.T) {
	assert.ErrorIs(t, runAdd(&bytes.Buffer{}, newTestStore(t), "", "pw"), credstore.ErrMissingSSID)
}

func TestRunForgetMissingFile(t *testing.T) {
	assert.ErrorIs(t, runForget(&bytes.Buffer{}, newTestStore(t), []string{"Home"}), credstore.ErrConfigMissing)
}

func TestRunAccessPointPreview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runAccessPoint(&buf, "WiFiManager", "", testDeviceID, nil))
	out := buf.String()
	assert.Contains(t, out, "SSID: WiFiManager_beef\n")
	assert.Contains(t, out, "Security: open\n")
	assert.NotContains(t, out, "Password:")

	buf.Reset()
	require.NoError(t, runAccessPoint(&buf, "Setup", "letmein123", testDeviceID, nil))
	assert.Contains(t, buf.String(), "SSID: Setup_beef\n")
	assert.Contains(t, buf.String(), "Security: WPA/WPA2-PSK\n")
	assert.Contains(t, buf.String(), "Password: letmein123\n")
}

func TestRunAccessPointStart(t *testing.T) {
	a := newTestApp(t)
	m, err := a.manager()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runAccessPoint(&buf, a.cfg.APPrefix, "", a.deviceID, m))
	assert.Contains(t, buf.String(), "SSID: WiFiManager_beef\n")
	assert.Contains(t, buf.String(), "Address: 192.168.4.1/255.255.255.0\n")

	cfg, ok := a.adapter.(*mock.MockAdapter).AccessPoint()
	require.True(t, ok)
	assert.Equal(t, "WiFiManager_beef", cfg.SSID)
}

func TestRunSeen(t *testing.T) {
	ctx := context.Background()
	store, err := sightings.Open(filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, []wifi.ScanResult{
		{SSID: "Old", BSSID: "02:00:00:00:00:09", RSSI: -70},
	}, now.Add(-72*time.Hour)))
	require.NoError(t, store.Record(ctx, []wifi.ScanResult{
		{SSID: "Home", BSSID: "02:00:00:00:00:01", RSSI: -60},
	}, now.Add(-10*time.Minute)))

	var buf bytes.Buffer
	require.NoError(t, runSeen(ctx, &buf, store, 24*time.Hour, 0, now))
	assert.Equal(t, "Home\t02:00:00:00:00:01\t-60 dBm\tseen 1 times, last 10 minutes ago\n", buf.String())

	buf.Reset()
	require.NoError(t, runSeen(ctx, &buf, store, 7*24*time.Hour, 48*time.Hour, now))
	assert.True(t, strings.HasPrefix(buf.String(), "pruned 1 sightings\n"))
	assert.NotContains(t, buf.String(), "Old")
}

func TestRunSeenWithoutDatabase(t *testing.T) {
	assert.Error(t, runSeen(context.Background(), &bytes.Buffer{}, nil, time.Hour, 0, time.Now()))
}

// fakeSurface saves the networks it is given, one per Serve.
type fakeSurface struct {
	saves  []credstore.NetworkCredential
	served int
	saved  bool
}

func (f *fakeSurface) Serve(ctx context.Context, m *manager.Manager) error {
	f.served++
	f.saved = false
	if len(f.saves) == 0 {
		return nil
	}
	c := f.saves[0]
	f.saves = f.saves[1:]
	if err := m.SaveNetwork(c); err != nil {
		return err
	}
	f.saved = true
	return nil
}

func (f *fakeSurface) Saved() bool { return f.saved }

func TestRunConnectConfiguresThenJoins(t *testing.T) {
	a := newTestApp(t)
	m, err := a.manager()
	require.NoError(t, err)

	surface := &fakeSurface{saves: []credstore.NetworkCredential{{SSID: "Home", Password: "hunter22"}}}
	var buf bytes.Buffer
	require.NoError(t, runConnect(context.Background(), &buf, m, surface))

	assert.Equal(t, 1, surface.served)
	assert.Equal(t, "not connected: not configured\nconnected\n", buf.String())
	assert.Equal(t, "Home", a.adapter.(*mock.MockAdapter).ConnectedSSID())
}

func TestRunConnectAlreadyConfigured(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, runAdd(&bytes.Buffer{}, a.store, "Home", "hunter22"))
	m, err := a.manager()
	require.NoError(t, err)

	surface := &fakeSurface{}
	var buf bytes.Buffer
	require.NoError(t, runConnect(context.Background(), &buf, m, surface))
	assert.Equal(t, 0, surface.served)
	assert.Equal(t, "connected\n", buf.String())
}

func TestRunConnectGivesUpWithoutSave(t *testing.T) {
	a := newTestApp(t)
	m, err := a.manager()
	require.NoError(t, err)

	surface := &fakeSurface{}
	err = runConnect(context.Background(), &bytes.Buffer{}, m, surface)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
	assert.Equal(t, 1, surface.served)
}
