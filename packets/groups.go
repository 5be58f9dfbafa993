package packets

import "github.com/zoobzio/nosline"

// PinitPacket lists the members of the group.
type PinitPacket struct {
	GroupSize uint8            `nos:"0"`
	Members   []PinitSubPacket `nos:"1,count=GroupSize,sep=space,elem=pipe"`
}

func (PinitPacket) Packet() {}

// PinitSubPacket is one group member. Players carry three more fields than
// mates.
type PinitSubPacket struct {
	EntityType    EntityType          `nos:"0"`
	EntityID      int64               `nos:"1"`
	GroupPosition int32               `nos:"2"`
	Level         uint8               `nos:"3"`
	Name          *nosline.NameString `nos:"4"`
	Unknown       *int32              `nos:"5"`
	VNum          int64               `nos:"6"`
	Race          int16               `nos:"7"`
	MorphVNum     int16               `nos:"8"`
	HeroLevel     *uint8              `nos:"9,if=EntityType:1"`
	Unknown1      *int32              `nos:"10,if=EntityType:1"`
	Unknown2      *int32              `nos:"11,if=EntityType:1"`
}

func (PinitSubPacket) Packet() {}

// PstPacket carries the health and effects of a group member.
type PstPacket struct {
	EntityType      EntityType         `nos:"0"`
	EntityID        int64              `nos:"1"`
	GroupPosition   *uint8             `nos:"2,if=EntityType:1"`
	MateType        *MateType          `nos:"3,if=EntityType:2"`
	HpPercentage    uint8              `nos:"4"`
	MpPercentage    uint8              `nos:"5"`
	Hp              int32              `nos:"6"`
	Mp              int32              `nos:"7"`
	PlayerClass     *PlayerClass       `nos:"8"`
	PlayerSex       *SexType           `nos:"9"`
	PlayerMorphVNum *int32             `nos:"10"`
	Effects         []EffectsSubPacket `nos:"11,list,sep=space,elem=dot"`
}

func (PstPacket) Packet() {}

type EffectsSubPacket struct {
	CardID int16 `nos:"0"`
	Level  uint8 `nos:"1"`
}

func (EffectsSubPacket) Packet() {}

// PtctlPacket is sent by the client to move its mates.
type PtctlPacket struct {
	MapID    int16            `nos:"0"`
	Amount   uint8            `nos:"1"`
	Controls []PtctlSubPacket `nos:"2,count=Amount,sep=space,elem=space"`
}

func (PtctlPacket) Packet() {}

type PtctlSubPacket struct {
	MateTransportID int64 `nos:"0"`
	X               int16 `nos:"1"`
	Y               int16 `nos:"2"`
}

func (PtctlSubPacket) Packet() {}

// RaidPacket is sent under raid and raidf. Type selects the single field
// that follows it.
type RaidPacket struct {
	Type          RaidPacketType               `nos:"0"`
	LeaderID      *int64                       `nos:"1,if=Type:2,optional"`
	LeaveType     *RaidLeaveType               `nos:"2,if=Type:1,optional"`
	MemberIDs     []int64                      `nos:"3,if=Type:0,optional,list,sep=space"`
	PlayerHealths []RaidPlayerHealthsSubPacket `nos:"4,if=Type:3,optional,list,sep=space,elem=dot"`
}

func (RaidPacket) Packet() {}

type RaidPlayerHealthsSubPacket struct {
	PlayerID     int64 `nos:"0"`
	HpPercentage uint8 `nos:"1"`
	MpPercentage uint8 `nos:"2"`
}

func (RaidPlayerHealthsSubPacket) Packet() {}

// FcPacket carries the act 4 state of both factions.
type FcPacket struct {
	Faction           FactionType `nos:"0"`
	MinutesUntilReset int64       `nos:"1"`
	AngelState        FcSubPacket `nos:"2,inner=space"`
	DemonState        FcSubPacket `nos:"3,inner=space"`
}

func (FcPacket) Packet() {}

type FcSubPacket struct {
	Percentage  int16    `nos:"0"`
	Mode        Act4Mode `nos:"1"`
	CurrentTime int64    `nos:"2"`
	TotalTime   int64    `nos:"3"`
	IsMorcos    bool     `nos:"4"`
	IsHatus     bool     `nos:"5"`
	IsCalvina   bool     `nos:"6"`
	IsBerios    bool     `nos:"7"`
	Unknown     uint8    `nos:"8"`
}

func (FcSubPacket) Packet() {}
