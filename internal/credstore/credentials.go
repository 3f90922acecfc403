package credstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkCredential is one saved network.
type NetworkCredential struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// Credentials is either a single credential or an ordered list of them,
// mirroring whether the file holds a JSON object or an array. The zero value
// is an empty list.
type Credentials struct {
	many  bool
	items []NetworkCredential
}

// SingleCredential wraps one credential.
func SingleCredential(c NetworkCredential) Credentials {
	return Credentials{items: []NetworkCredential{c}}
}

// ManyCredentials wraps an ordered list of credentials.
func ManyCredentials(cs ...NetworkCredential) Credentials {
	return Credentials{many: true, items: append([]NetworkCredential(nil), cs...)}
}

// IsSingle reports whether c holds exactly one credential in single form.
func (c Credentials) IsSingle() bool {
	return !c.many && len(c.items) == 1
}

// Len returns the number of credentials.
func (c Credentials) Len() int { return len(c.items) }

// List returns the credentials in order. A single value is a list of one.
func (c Credentials) List() []NetworkCredential {
	return append([]NetworkCredential(nil), c.items...)
}

// SSIDs returns the SSID of every credential, in order.
func (c Credentials) SSIDs() []string {
	ssids := make([]string, 0, len(c.items))
	for _, it := range c.items {
		if it.SSID != "" {
			ssids = append(ssids, it.SSID)
		}
	}
	return ssids
}

// Without returns a list form of c with every credential named in ssids removed.
func (c Credentials) Without(ssids ...string) Credentials {
	drop := make(map[string]bool, len(ssids))
	for _, s := range ssids {
		drop[s] = true
	}
	kept := make([]NetworkCredential, 0, len(c.items))
	for _, it := range c.items {
		if !drop[it.SSID] {
			kept = append(kept, it)
		}
	}
	return Credentials{many: true, items: kept}
}

// Merge combines existing file content with newly saved content:
//
//	single + single -> [existing, incoming]
//	single + list   -> [existing, incoming...]
//	list   + single -> [existing..., incoming]
//	list   + list   -> [existing..., incoming...]
//
// An empty existing value is replaced by incoming as is.
func Merge(existing, incoming Credentials) Credentials {
	if len(existing.items) == 0 && !existing.many {
		return incoming
	}
	merged := make([]NetworkCredential, 0, len(existing.items)+len(incoming.items))
	merged = append(merged, existing.items...)
	merged = append(merged, incoming.items...)
	return Credentials{many: true, items: merged}
}

func (c Credentials) validate() error {
	for i, it := range c.items {
		if it.SSID == "" {
			return fmt.Errorf("entry %d: %w", i, ErrMissingSSID)
		}
	}
	return nil
}

func (c Credentials) MarshalJSON() ([]byte, error) {
	if c.IsSingle() {
		return json.Marshal(c.items[0])
	}
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

func (c *Credentials) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty document: %w", ErrCorruptCredentials)
	}
	switch data[0] {
	case '{':
		var entry NetworkCredential
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		*c = Credentials{}
		if entry.SSID != "" {
			c.items = []NetworkCredential{entry}
		}
		return nil
	case '[':
		var entries []NetworkCredential
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		*c = Credentials{many: true, items: make([]NetworkCredential, 0, len(entries))}
		for _, e := range entries {
			if e.SSID != "" {
				c.items = append(c.items, e)
			}
		}
		return nil
	}
	return fmt.Errorf("expected an object or array: %w", ErrCorruptCredentials)
}

// ParseCredentials decodes credential text. Older files hold a repr with
// single quotes, so a failed parse is retried with quotes swapped.
func ParseCredentials(text string) (Credentials, error) {
	var c Credentials
	err := json.Unmarshal([]byte(text), &c)
	if err == nil {
		return c, nil
	}
	if strings.Contains(text, "'") {
		if lerr := json.Unmarshal([]byte(strings.ReplaceAll(text, "'", `"`)), &c); lerr == nil {
			return c, nil
		}
	}
	return Credentials{}, fmt.Errorf("%w: %v", ErrCorruptCredentials, err)
}
