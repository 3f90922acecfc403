package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/wifi"
	"github.com/wifimgr/wifimgr/wifi/mock"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

var testDeviceID = []byte{0xde, 0xad, 0xbe, 0xef}

type fixture struct {
	m       *Manager
	adapter *mock.MockAdapter
	mem     *credstore.Memory
	store   *credstore.Store
	clock   *fakeClock
}

func newFixture(t *testing.T, visible ...string) *fixture {
	t.Helper()
	a := mock.New()
	a.ActionSleep = 0
	a.Randomize = false
	a.Secrets = nil
	a.ConnectAfterPolls = 3
	a.AccessPointAfterPolls = 1
	a.Networks = nil
	for i, s := range visible {
		a.Networks = append(a.Networks, wifi.ScanResult{SSID: s, BSSID: "02:00:00:00:00:0" + string(rune('1'+i)), RSSI: -60})
	}

	c, err := credstore.NewDeviceCipher(testDeviceID)
	require.NoError(t, err)
	mem := credstore.NewMemory()
	store, err := credstore.New(credstore.Options{Path: "wifi-secure.json", Cipher: c, Persistence: mem})
	require.NoError(t, err)

	m, err := New(Options{Adapter: a, Store: store, DeviceID: testDeviceID})
	require.NoError(t, err)
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	m.negotiator.Clock = clock
	return &fixture{m: m, adapter: a, mem: mem, store: store, clock: clock}
}

func TestLoadAndConnectNotConfigured(t *testing.T) {
	f := newFixture(t, "Home")
	assert.False(t, f.m.LoadAndConnect())
	assert.Equal(t, ResultNotConfigured, f.m.Result())
	assert.Equal(t, []string{}, f.m.ConfiguredNetworks())
	assert.Empty(t, f.adapter.Calls())
}

func TestLoadAndConnectTimeout(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(credstore.SingleCredential(credstore.NetworkCredential{SSID: "Gone", Password: "x"})))

	assert.False(t, f.m.LoadAndConnect())
	assert.Equal(t, ResultTimeout, f.m.Result())
	assert.GreaterOrEqual(t, f.clock.slept, DefaultConnectTimeout)
	assert.Less(t, f.clock.slept, DefaultConnectTimeout+time.Second)
	assert.Equal(t, []string{"Gone"}, f.m.ConfiguredNetworks())
}

func TestLoadAndConnectSecondNetwork(t *testing.T) {
	f := newFixture(t, "Office")
	require.NoError(t, f.store.Save(credstore.ManyCredentials(
		credstore.NetworkCredential{SSID: "Home", Password: "a"},
		credstore.NetworkCredential{SSID: "Office", Password: "b"},
	)))

	assert.True(t, f.m.LoadAndConnect())
	assert.Equal(t, ResultSuccess, f.m.Result())
	assert.Equal(t, "Office", f.adapter.ConnectedSSID())
	assert.Equal(t, []string{"Home", "Office"}, f.m.ConfiguredNetworks())
}

func TestLoadAndConnectCorrupt(t *testing.T) {
	f := newFixture(t, "Home")
	require.NoError(t, f.mem.WriteBytes("wifi-secure.json", []byte("0123456789abcdef")))

	assert.False(t, f.m.LoadAndConnect())
	assert.Equal(t, ResultError, f.m.Result())
}

func TestLoadAndConnectAdapterFault(t *testing.T) {
	f := newFixture(t, "Home")
	f.adapter.ConnectError = errors.New("boom")
	require.NoError(t, f.m.SaveNetwork(credstore.NetworkCredential{SSID: "Home"}))

	assert.False(t, f.m.LoadAndConnect())
	assert.Equal(t, ResultError, f.m.Result())
}

func TestConnectionTimeoutFloor(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, DefaultConnectTimeout, f.m.ConnectionTimeout())
	f.m.SetConnectionTimeout(time.Second)
	assert.Equal(t, MinConnectTimeout, f.m.ConnectionTimeout())
	f.m.SetScanInterval(10 * time.Millisecond)
	assert.Equal(t, time.Second, f.m.ScanInterval())
}

func TestSaveAndRemove(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.SaveNetwork(credstore.NetworkCredential{SSID: "A", Password: "1"}))
	require.NoError(t, f.m.SaveNetwork(credstore.NetworkCredential{SSID: "B", Password: "2"}))
	assert.Equal(t, []string{"A", "B"}, f.m.ConfiguredNetworks())

	require.NoError(t, f.m.RemoveNetworks("A"))
	assert.Equal(t, []string{"B"}, f.m.ConfiguredNetworks())

	assert.ErrorIs(t, f.m.SaveNetwork(credstore.NetworkCredential{Password: "x"}), credstore.ErrMissingSSID)
}

func waitForScan(t *testing.T, m *Manager) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(m.cache.Peek()) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no scan result")
}

func TestSaveSelectionByBSSID(t *testing.T) {
	f := newFixture(t, "Home", "Office")
	f.m.cache.Start()
	waitForScan(t, f.m)
	f.m.cache.Stop()

	require.NoError(t, f.m.SaveSelection("02:00:00:00:00:02", "", "secret"))
	assert.Equal(t, []string{"Office"}, f.m.ConfiguredNetworks())

	err := f.m.SaveSelection("ff:ff:ff:ff:ff:ff", "", "secret")
	assert.ErrorIs(t, err, ErrUnknownBSSID)

	require.NoError(t, f.m.SaveSelection("", "Typed", "pw"))
	assert.Equal(t, []string{"Office", "Typed"}, f.m.ConfiguredNetworks())
}

type surfaceFunc func(ctx context.Context, m *Manager) error

func (f surfaceFunc) Serve(ctx context.Context, m *Manager) error { return f(ctx, m) }

func TestStartConfig(t *testing.T) {
	f := newFixture(t, "Home")

	var running bool
	surface := surfaceFunc(func(ctx context.Context, m *Manager) error {
		running = m.cache.Running()
		waitForScan(t, m)
		assert.NotEmpty(t, m.LatestScan())
		return m.SaveNetwork(credstore.NetworkCredential{SSID: "Home", Password: "pw"})
	})
	require.NoError(t, f.m.StartConfig(context.Background(), surface))

	assert.True(t, running)
	assert.False(t, f.m.cache.Running())
	assert.Equal(t, []string{"Home"}, f.m.ConfiguredNetworks())

	info, ok := f.m.AccessPoint()
	require.True(t, ok)
	assert.Equal(t, "WiFiManager_beef", info.SSID)
	assert.Equal(t, wifi.AuthOpen, info.AuthMode)
}

func TestStartConfigSurfaceError(t *testing.T) {
	f := newFixture(t)
	surface := surfaceFunc(func(ctx context.Context, m *Manager) error { return errors.New("tty gone") })
	assert.Error(t, f.m.StartConfig(context.Background(), surface))
	assert.False(t, f.m.cache.Running())
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", ResultSuccess.String())
	assert.Equal(t, "not configured", ResultNotConfigured.String())
	assert.Equal(t, "Result(42)", Result(42).String())
}
