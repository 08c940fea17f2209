package internal

import (
	"fmt"
	"strings"
	"talk-gate/errors"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath         string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath          string        `env:"BLUGE_FILEPATH"`
	LogLevel               string        `env:"LOG_LEVEL,default=INFO"`
	StoreTimeout           time.Duration `env:"STORE_TIMEOUT,default=5s"`
	NotificationBufferSize int           `env:"NOTIFICATION_BUFFER_SIZE,default=64"`
	NotificationTimeout    time.Duration `env:"NOTIFICATION_TIMEOUT,default=2s"`
	RestartInterval        time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	PendingMessagePolicy   string        `env:"PENDING_MESSAGE_POLICY,default=discard"`
	CensoredWords          string        `env:"CENSORED_WORDS"`
	CharReplacement        string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

// NatsConfig is read from NATS_* variables. An empty URL disables the NATS sink.
type NatsConfig struct {
	URL     string `envconfig:"URL"`
	Subject string `envconfig:"SUBJECT" default:"talkgate.notifications"`
	Name    string `envconfig:"NAME" default:"talk-gate"`
}

func LoadNatsConfig() (NatsConfig, error) {
	var config NatsConfig
	if err := envconfig.Process("NATS", &config); err != nil {
		return NatsConfig{}, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return config, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: CHARACTER_REPLACEMENT must be a single character, got %q",
			errors.ErrInvalidConfig, str)
	}
	return r[0], nil
}

// CensoredWordList splits the comma separated CENSORED_WORDS value.
func CensoredWordList(str string) []string {
	words := lo.Map(strings.Split(str, ","), func(w string, _ int) string { return strings.TrimSpace(w) })
	return lo.Compact(words)
}
