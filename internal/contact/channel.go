package contact

import (
	"errors"
	"fmt"
)

// Channel is a contact method a visitor can ask to be reached through.
type Channel string

const (
	Telegram Channel = "telegram"
	VK       Channel = "vk"
	Max      Channel = "max"
	Email    Channel = "email"
	Phone    Channel = "phone"
	Website  Channel = "website"
)

// DefaultChannel is the only channel selected on a fresh form.
const DefaultChannel = Telegram

// ErrUnknownChannel is returned for channel names outside the supported set.
var ErrUnknownChannel = errors.New("contact: unknown channel")

type channelInfo struct {
	icon      string
	inputType string
}

var channelTable = map[Channel]channelInfo{
	Telegram: {icon: "💬", inputType: "text"},
	VK:       {icon: "💙", inputType: "text"},
	Max:      {icon: "💜", inputType: "text"},
	Email:    {icon: "📧", inputType: "email"},
	Phone:    {icon: "📱", inputType: "tel"},
	Website:  {icon: "🌐", inputType: "url"},
}

// Channels returns every supported channel in display order.
func Channels() []Channel {
	return []Channel{Telegram, VK, Max, Email, Phone, Website}
}

// ParseChannel maps a wire name to a Channel.
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
	}
	return ch, nil
}

func (c Channel) Valid() bool {
	_, ok := channelTable[c]
	return ok
}

func (c Channel) String() string { return string(c) }

// Icon is the emoji shown next to the channel chip.
func (c Channel) Icon() string { return channelTable[c].icon }

// InputType is the HTML input type hint for the channel's contact field.
func (c Channel) InputType() string {
	if info, ok := channelTable[c]; ok {
		return info.inputType
	}
	return "text"
}
