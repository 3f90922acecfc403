package credstore

import "errors"

var (
	// ErrConfigMissing is returned when no credential file exists yet.
	ErrConfigMissing = errors.New("credential file missing")
	// ErrCorruptCredentials is returned when the file cannot be decrypted or parsed.
	ErrCorruptCredentials = errors.New("corrupt credential data")
	// ErrMissingSSID is returned when saving an entry without an SSID.
	ErrMissingSSID = errors.New("network entry has no ssid")
	// ErrEmptyDeviceID is returned when deriving a key from an empty identifier.
	ErrEmptyDeviceID = errors.New("empty device identifier")
)
