package entity

import (
	"errors"
	"strings"
)

var ErrUnknownChannel = errors.New("otp: unknown delivery channel")

// Channel is the medium a code is delivered through.
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS"
	ChannelTelegram Channel = "TELEGRAM"
	ChannelFile     Channel = "FILE"
)

func (c Channel) String() string { return string(c) }

// ParseChannel is case-insensitive and ignores surrounding spaces.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToUpper(strings.TrimSpace(s))); c {
	case ChannelEmail, ChannelSMS, ChannelTelegram, ChannelFile:
		return c, nil
	default:
		return "", ErrUnknownChannel
	}
}
