package packets

import "github.com/zoobzio/nosline"

// InPacket announces an entity entering the map. Which sub-packet is filled
// depends on EntityType.
type InPacket struct {
	EntityType EntityType            `nos:"0"`
	Name       *nosline.NameString   `nos:"1,if=EntityType:1"`
	VNum       *int64                `nos:"2,unless=EntityType:1"`
	Unknown    *string               `nos:"3,if=EntityType:1"`
	EntityID   int64                 `nos:"4"`
	X          int16                 `nos:"5"`
	Y          int16                 `nos:"6"`
	Direction  *uint8                `nos:"7,unless=EntityType:9"`
	Player     *InPlayerSubPacket    `nos:"8,if=EntityType:1,inner=space"`
	Item       *InItemSubPacket      `nos:"9,if=EntityType:9,inner=space"`
	NonPlayer  *InNonPlayerSubPacket `nos:"10,unless=EntityType:1|9,inner=space"`
}

func (InPacket) Packet() {}

// InPlayerSubPacket is the player part of an in packet.
type InPlayerSubPacket struct {
	Authority      AuthorityType                     `nos:"0"`
	Sex            SexType                           `nos:"1"`
	HairStyle      HairStyle                         `nos:"2"`
	HairColor      HairColor                         `nos:"3"`
	Class          PlayerClass                       `nos:"4"`
	Equipment      InEquipmentSubPacket              `nos:"5,inner=dot"`
	HpPercentage   int16                             `nos:"6"`
	MpPercentage   int16                             `nos:"7"`
	IsSitting      bool                              `nos:"8"`
	GroupID        *int64                            `nos:"9"`
	Fairy          int16                             `nos:"10"`
	FairyElement   Element                           `nos:"11"`
	Unknown        uint8                             `nos:"12"`
	MorphVNum      int64                             `nos:"13"`
	Unknown2       uint8                             `nos:"14"`
	Unknown3       int16                             `nos:"15"`
	WeaponUpgrade  *nosline.UpgradeRare              `nos:"16"`
	ArmorUpgrade   *nosline.UpgradeRare              `nos:"17"`
	Family         nosline.Nullable[FamilySubPacket] `nos:"18,inner=dot"`
	FamilyName     *string                           `nos:"19"`
	ReputationIcon int16                             `nos:"20"`
	IsInvisible    bool                              `nos:"21"`
	MorphUpgrade   uint8                             `nos:"22"`
	Faction        FactionType                       `nos:"23"`
	MorphUpgrade2  uint8                             `nos:"24"`
	Level          uint8                             `nos:"25"`
	FamilyLevel    uint8                             `nos:"26"`
	FamilyIcons    []bool                            `nos:"27,list,sep=pipe"`
	ArenaWinner    bool                              `nos:"28"`
	Compliment     int16                             `nos:"29"`
	Size           uint8                             `nos:"30"`
	HeroLevel      uint8                             `nos:"31"`
	Title          int16                             `nos:"32"`
}

func (InPlayerSubPacket) Packet() {}

// InNonPlayerSubPacket is the npc and monster part of an in packet.
type InNonPlayerSubPacket struct {
	HpPercentage uint8               `nos:"0"`
	MpPercentage uint8               `nos:"1"`
	Dialog       int16               `nos:"2"`
	Faction      FactionType         `nos:"3"`
	GroupEffect  int16               `nos:"4"`
	OwnerID      *int64              `nos:"5"`
	SpawnEffect  SpawnEffect         `nos:"6"`
	IsSitting    bool                `nos:"7"`
	MorphVNum    *int64              `nos:"8"`
	Name         *nosline.NameString `nos:"9"`
	Unknown      *string             `nos:"10"`
	Unknown2     *string             `nos:"11"`
	Unknown3     *string             `nos:"12"`
	Skill1       int16               `nos:"13"`
	Skill2       int16               `nos:"14"`
	Skill3       int16               `nos:"15"`
	SkillRank1   int16               `nos:"16"`
	SkillRank2   int16               `nos:"17"`
	SkillRank3   int16               `nos:"18"`
	IsInvisible  bool                `nos:"19"`
	Unknown4     *string             `nos:"20"`
	Unknown5     *string             `nos:"21"`
}

func (InNonPlayerSubPacket) Packet() {}

// InItemSubPacket is the dropped item part of an in packet.
type InItemSubPacket struct {
	Amount          int32 `nos:"0"`
	IsQuestRelative bool  `nos:"1"`
	OwnerID         int64 `nos:"2"`
}

func (InItemSubPacket) Packet() {}

// InEquipmentSubPacket lists the visible equipment vnums, "-1" for an empty slot.
type InEquipmentSubPacket struct {
	HatVNum             *int32 `nos:"0"`
	ArmorVNum           *int32 `nos:"1"`
	MainWeaponVNum      *int32 `nos:"2"`
	SecondaryWeaponVNum *int32 `nos:"3"`
	MaskVNum            *int32 `nos:"4"`
	FairyVNum           *int32 `nos:"5"`
	CostumeSuitVNum     *int32 `nos:"6"`
	CostumeHatVNum      *int32 `nos:"7"`
	WeaponSkin          *int16 `nos:"8"`
	WingSkin            *int16 `nos:"9"`
}

func (InEquipmentSubPacket) Packet() {}

type FamilySubPacket struct {
	FamilyID int64  `nos:"0"`
	Title    *uint8 `nos:"1,optional"`
}

func (FamilySubPacket) Packet() {}

// StPacket carries the status of a targeted entity.
type StPacket struct {
	EntityType   EntityType    `nos:"0"`
	EntityID     int64         `nos:"1"`
	Level        uint8         `nos:"2"`
	HeroLevel    uint8         `nos:"3"`
	HpPercentage uint8         `nos:"4"`
	MpPercentage uint8         `nos:"5"`
	Hp           int64         `nos:"6"`
	Mp           int64         `nos:"7"`
	Buffs        []StSubPacket `nos:"8,list,sep=space,elem=dot,optional"`
}

func (StPacket) Packet() {}

type StSubPacket struct {
	BuffVNum int32  `nos:"0"`
	Level    *int16 `nos:"1,optional"`
}

func (StSubPacket) Packet() {}

// MovePacket moves an entity on the map.
type MovePacket struct {
	EntityType EntityType `nos:"0"`
	EntityID   int64      `nos:"1"`
	X          int16      `nos:"2"`
	Y          int16      `nos:"3"`
	Speed      uint8      `nos:"4"`
}

func (MovePacket) Packet() {}

// WalkPacket is sent by the client to move its character.
type WalkPacket struct {
	X        int16 `nos:"0"`
	Y        int16 `nos:"1"`
	Checksum uint8 `nos:"2"`
	Speed    uint8 `nos:"3"`
}

func (WalkPacket) Packet() {}

type ThrowPacket struct {
	ItemVNum int32 `nos:"0"`
	DropID   int64 `nos:"1"`
	SourceX  int16 `nos:"2"`
	SourceY  int16 `nos:"3"`
	TargetX  int16 `nos:"4"`
	TargetY  int16 `nos:"5"`
	Amount   int32 `nos:"6"`
}

func (ThrowPacket) Packet() {}

// CModePacket changes the look of an entity. Morph data is sent only for
// morphed entities.
type CModePacket struct {
	EntityType   EntityType `nos:"0"`
	EntityID     int64      `nos:"1"`
	MorphVNum    *int64     `nos:"2,optional"`
	MorphUpgrade *uint8     `nos:"3,optional"`
	MorphDesign  *int16     `nos:"4,optional"`
	MorphBonus   *uint8     `nos:"5,optional"`
	Size         *uint8     `nos:"6,optional"`
	MorphSkin    *int16     `nos:"7,optional"`
}

func (CModePacket) Packet() {}

// EqPacket carries the equipment of a player.
type EqPacket struct {
	CharacterID   int64                `nos:"0"`
	Authority     AuthorityType        `nos:"1"`
	Sex           SexType              `nos:"2"`
	HairStyle     HairStyle            `nos:"3"`
	HairColor     HairColor            `nos:"4"`
	Class         PlayerClass          `nos:"5"`
	Equipment     InEquipmentSubPacket `nos:"6,inner=dot"`
	WeaponUpgrade *nosline.UpgradeRare `nos:"7"`
	ArmorUpgrade  *nosline.UpgradeRare `nos:"8"`
	Size          *uint8               `nos:"9,optional"`
}

func (EqPacket) Packet() {}

// GidxPacket tells the family of an entity.
type GidxPacket struct {
	EntityType       EntityType                        `nos:"0"`
	EntityID         int64                             `nos:"1"`
	Family           nosline.Nullable[FamilySubPacket] `nos:"2,inner=dot"`
	FamilyName       *nosline.NameString               `nos:"3"`
	FamilyCustomRank *nosline.NameString               `nos:"4"`
	FamilyIcons      []bool                            `nos:"5,list,sep=pipe"`
}

func (GidxPacket) Packet() {}
