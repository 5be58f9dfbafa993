package packets

import "github.com/zoobzio/nosline"

// SayPacket is sent by the client to talk on the map.
type SayPacket struct {
	Message string `nos:"0,greedy"`
}

func (SayPacket) Packet() {}

// SayServerPacket is a chat message of an entity on the map.
type SayServerPacket struct {
	EntityType EntityType `nos:"0"`
	EntityID   int64      `nos:"1"`
	Color      SayColor   `nos:"2"`
	Message    string     `nos:"3,greedy"`
}

func (SayServerPacket) Packet() {}

// SayitemtPacket is a chat message with a linked item.
type SayitemtPacket struct {
	EntityType EntityType         `nos:"0"`
	EntityID   int64              `nos:"1"`
	Color      SayColor           `nos:"2"`
	Amount     int16              `nos:"3"`
	ItemVNum   int32              `nos:"4"`
	Name       nosline.NameString `nos:"5"`
	Message    string             `nos:"6"`
	ItemInfo   string             `nos:"7,greedy"`
}

func (SayitemtPacket) Packet() {}

// MlInfoPacket describes the miniland of the character.
type MlInfoPacket struct {
	MusicID         int16              `nos:"0"`
	Points          int64              `nos:"1"`
	Unknown         uint8              `nos:"2"`
	DailyVisitCount int32              `nos:"3"`
	VisitCount      int32              `nos:"4"`
	Unknown1        uint8              `nos:"5"`
	State           MinilandState      `nos:"6"`
	MusicName       nosline.NameString `nos:"7"`
	Message         string             `nos:"8,greedy"`
}

func (MlInfoPacket) Packet() {}

type TwkPacket struct {
	EntityType     EntityType         `nos:"0"`
	EntityID       int64              `nos:"1"`
	AccountName    string             `nos:"2"`
	CharacterName  nosline.NameString `nos:"3"`
	Salt           string             `nos:"4"`
	ServerLanguage *string            `nos:"5,optional"`
	ClientLanguage *string            `nos:"6,optional"`
}

func (TwkPacket) Packet() {}

// PulsePacket is the client keep-alive, sent once a minute. The meaning of
// the second field is not known; it is passed through as read.
type PulsePacket struct {
	Seconds int32 `nos:"0"`
	Unknown int32 `nos:"1"`
}

func (PulsePacket) Packet() {}
