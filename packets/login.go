package packets

import "github.com/zoobzio/nosline"

// CListPacket describes one character on the character selection screen.
// Pets holds one entry per pet slot, "-1" for an empty slot; a trailing dot
// leaves the last entry absent.
type CListPacket struct {
	Slot      uint8                                                   `nos:"0"`
	Name      nosline.NameString                                      `nos:"1"`
	Unknown   uint8                                                   `nos:"2"`
	Sex       SexType                                                 `nos:"3"`
	HairStyle HairStyle                                               `nos:"4"`
	HairColor HairColor                                               `nos:"5"`
	Unknown1  uint8                                                   `nos:"6"`
	Class     PlayerClass                                             `nos:"7"`
	Level     uint8                                                   `nos:"8"`
	HeroLevel uint8                                                   `nos:"9"`
	Equipment CListEquipmentSubPacket                                 `nos:"10,inner=dot"`
	JobLevel  uint8                                                   `nos:"11,empty"`
	Unknown2  uint8                                                   `nos:"12"`
	Unknown3  uint8                                                   `nos:"13"`
	Pets      []nosline.Optional[nosline.Nullable[CListPetSubPacket]] `nos:"14,list,sep=dot,elem=dot"`
	HatDesign uint8                                                   `nos:"15"`
	Unknown4  uint8                                                   `nos:"16"`
}

func (CListPacket) Packet() {}

type CListEquipmentSubPacket struct {
	HatVNum             *int32 `nos:"0"`
	ArmorVNum           *int32 `nos:"1"`
	MainWeaponVNum      *int32 `nos:"2"`
	SecondaryWeaponVNum *int32 `nos:"3"`
	MaskVNum            *int32 `nos:"4"`
	FairyVNum           *int32 `nos:"5"`
	CostumeSuitVNum     *int32 `nos:"6"`
	CostumeHatVNum      *int32 `nos:"7"`
}

func (CListEquipmentSubPacket) Packet() {}

type CListPetSubPacket struct {
	Unknown int16 `nos:"0"`
	VNum    int32 `nos:"1"`
}

func (CListPetSubPacket) Packet() {}

// CListStartPacket opens the character list.
type CListStartPacket struct {
	Unknown uint8 `nos:"0"`
}

func (CListStartPacket) Packet() {}

// CListEndPacket closes the character list.
type CListEndPacket struct{}

func (CListEndPacket) Packet() {}

// LevPacket carries level and experience of the character.
type LevPacket struct {
	Level      uint8 `nos:"0"`
	LevelXp    int64 `nos:"1"`
	JobLevel   uint8 `nos:"2"`
	JobLevelXp int64 `nos:"3"`
	XpLoad     int64 `nos:"4"`
	JobXpLoad  int64 `nos:"5"`
	Reputation int64 `nos:"6"`
	SkillCp    int32 `nos:"7"`
	HeroXp     int64 `nos:"8"`
	HeroLevel  uint8 `nos:"9"`
	HeroXpLoad int64 `nos:"10"`
}

func (LevPacket) Packet() {}
