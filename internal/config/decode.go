package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// StringToBool is a DecodeHookFunc that accepts yes/no and on/off in
// addition to the forms strconv.ParseBool understands.
func StringToBool() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		s := strings.ToLower(strings.TrimSpace(data.(string)))
		switch s {
		case "", "no", "off":
			return false, nil
		case "yes", "on":
			return true, nil
		}
		return strconv.ParseBool(s)
	}
}
