package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when looking up environment overrides,
// e.g. database.url is read from OTPGATE_DATABASE_URL.
const EnvPrefix = "OTPGATE"

// Viper is a Config backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at pathFile and watches it for changes. Keys that
// are edited while running, like modules.otp.delivery_channel, take effect on
// the next read.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	base := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(base, path.Ext(base)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(ev fsnotify.Event) {
		slog.Info("config reloaded", "path", pathFile, "op", ev.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes builds a Config from memory; configType is any format
// viper understands ("yaml", "json", ...).
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }

func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }

func (vc *Viper) GetInt(key string) int { return vc.v.GetInt(key) }

func (vc *Viper) GetInt32(key string) int32 { return vc.v.GetInt32(key) }

func (vc *Viper) GetInt64(key string) int64 { return vc.v.GetInt64(key) }

func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

// GetSecond reads key as a number of seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetMinute reads key as a number of minutes.
func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetArray reads key as a list or a comma separated string.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	switch val := vc.v.Get(key).(type) {
	case []any:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	case []string:
		items = val
	default:
		items = strings.Split(vc.v.GetString(key), ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close exists so the config can sit in the app closer list.
func (vc *Viper) Close() error { return nil }
