//go:build linux

package iwd

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const errCanceled = "net.connman.iwd.Agent.Error.Canceled"

// agent answers iwd's passphrase requests with the password given to the
// most recent Connect for that network.
type agent struct {
	name func(dbus.ObjectPath) (string, error)

	mu          sync.Mutex
	passphrases map[string]string
}

func newAgent(name func(dbus.ObjectPath) (string, error)) *agent {
	return &agent{name: name, passphrases: map[string]string{}}
}

func (ag *agent) setPassphrase(ssid, passphrase string) {
	ag.mu.Lock()
	defer ag.mu.Unlock()
	ag.passphrases[ssid] = passphrase
}

// RequestPassphrase is called by iwd over D-Bus.
func (ag *agent) RequestPassphrase(network dbus.ObjectPath) (string, *dbus.Error) {
	ssid, err := ag.name(network)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	ag.mu.Lock()
	defer ag.mu.Unlock()
	pass, ok := ag.passphrases[ssid]
	if !ok || pass == "" {
		return "", dbus.NewError(errCanceled, []any{"no passphrase for " + ssid})
	}
	return pass, nil
}

// Release is called by iwd when it no longer uses the agent.
func (ag *agent) Release() *dbus.Error { return nil }

// Cancel is called by iwd when a pending request is abandoned.
func (ag *agent) Cancel(reason string) *dbus.Error { return nil }
