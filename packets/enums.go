// Package packets is the default packet catalog: struct definitions for common
// client and server packets and the enums they use.
//
// Call Register to add every packet to a registry:
//
//	reg := nosline.NewRegistry()
//	if err := packets.Register(reg); err != nil {
//	    log.Fatal(err)
//	}
package packets

// EntityType identifies what kind of entity a packet refers to.
type EntityType uint8

const (
	EntityPlayer  EntityType = 1
	EntityNpc     EntityType = 2
	EntityMonster EntityType = 3
	EntityObject  EntityType = 9
)

func (t EntityType) String() string {
	switch t {
	case EntityPlayer:
		return "player"
	case EntityNpc:
		return "npc"
	case EntityMonster:
		return "monster"
	case EntityObject:
		return "object"
	default:
		return "unknown"
	}
}

// FactionType is the act 4 faction.
type FactionType uint8

const (
	FactionNeutral FactionType = 0
	FactionAngel   FactionType = 1
	FactionDemon   FactionType = 2
)

type SexType uint8

const (
	SexMale   SexType = 0
	SexFemale SexType = 1
)

type HairStyle uint8

const (
	HairStyleA HairStyle = 0
	HairStyleB HairStyle = 1
	HairStyleC HairStyle = 2
)

type HairColor uint8

const (
	HairColorDarkPurple  HairColor = 0
	HairColorFlashPurple HairColor = 106
)

type PlayerClass uint8

const (
	ClassAdventurer    PlayerClass = 0
	ClassSwordsman     PlayerClass = 1
	ClassArcher        PlayerClass = 2
	ClassMage          PlayerClass = 3
	ClassMartialArtist PlayerClass = 4
)

type AuthorityType uint8

const (
	AuthorityUser       AuthorityType = 0
	AuthorityModerator  AuthorityType = 1
	AuthorityGameMaster AuthorityType = 2
)

// Element is the fairy element.
type Element uint8

const (
	ElementNeutral Element = 0
	ElementFire    Element = 1
	ElementWater   Element = 2
	ElementLight   Element = 3
	ElementDark    Element = 4
)

type SpawnEffect uint8

const (
	SpawnEffectDefault SpawnEffect = 0
	SpawnEffectNone    SpawnEffect = 1
)

// Act4Mode is the state of an act 4 faction.
type Act4Mode uint8

const (
	Act4ModeNone       Act4Mode = 0
	Act4ModePercentage Act4Mode = 1
	Act4ModeTime       Act4Mode = 2
	Act4ModeRaid       Act4Mode = 3
)

// RaidPacketType selects which fields a raid packet carries.
type RaidPacketType uint8

const (
	RaidListMembers   RaidPacketType = 0
	RaidLeave         RaidPacketType = 1
	RaidLeader        RaidPacketType = 2
	RaidPlayerHealths RaidPacketType = 3
)

type RaidLeaveType uint8

const (
	RaidPlayerLeft   RaidLeaveType = 0
	RaidPlayerKicked RaidLeaveType = 1
)

type HitMode uint8

const (
	HitModeNormal   HitMode = 0
	HitModeMiss     HitMode = 1
	HitModeCritical HitMode = 3
)

type MateType uint8

const (
	MatePartner MateType = 0
	MatePet     MateType = 1
)

type SayColor uint8

const (
	SayColorDefault SayColor = 0
	SayColorRed     SayColor = 10
	SayColorYellow  SayColor = 11
)

type MinilandState uint8

const (
	MinilandOpen    MinilandState = 0
	MinilandPrivate MinilandState = 1
	MinilandLock    MinilandState = 2
)
