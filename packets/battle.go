package packets

// SuPacket reports a skill hit.
type SuPacket struct {
	CasterEntityType  EntityType `nos:"0"`
	CasterEntityID    int64      `nos:"1"`
	TargetEntityType  EntityType `nos:"2"`
	TargetEntityID    int64      `nos:"3"`
	SkillVNum         int32      `nos:"4"`
	SkillCooldown     int64      `nos:"5"`
	AttackAnimation   int64      `nos:"6"`
	SkillEffect       int64      `nos:"7"`
	X                 int16      `nos:"8"`
	Y                 int16      `nos:"9"`
	TargetIsAlive     bool       `nos:"10"`
	HpPercentage      uint8      `nos:"11"`
	Damage            uint32     `nos:"12"`
	HitMode           *HitMode   `nos:"13"`
	SkillTypeMinusOne int32      `nos:"14"`
}

func (SuPacket) Packet() {}

// BsPacket reports an area skill cast.
type BsPacket struct {
	CasterEntityType  EntityType `nos:"0"`
	CasterEntityID    int64      `nos:"1"`
	X                 int16      `nos:"2"`
	Y                 int16      `nos:"3"`
	SkillVNum         int32      `nos:"4"`
	Cooldown          int16      `nos:"5"`
	AttackAnimationID int64      `nos:"6"`
	EffectID          int64      `nos:"7"`
	Unknown1          int32      `nos:"8"`
	Unknown2          int32      `nos:"9"`
	Unknown3          int32      `nos:"10"`
	Unknown4          int32      `nos:"11"`
	Unknown5          int32      `nos:"12"`
	Unknown6          int32      `nos:"13"`
	Unknown7          int32      `nos:"14"`
}

func (BsPacket) Packet() {}

// CtPacket reports the start of a skill cast.
type CtPacket struct {
	CasterEntityType EntityType `nos:"0"`
	CasterEntityID   int64      `nos:"1"`
	TargetEntityType EntityType `nos:"2"`
	TargetEntityID   *int64     `nos:"3"`
	CastAnimation    *int16     `nos:"4"`
	CastEffect       *int16     `nos:"5"`
	SkillVNum        *int32     `nos:"6"`
}

func (CtPacket) Packet() {}

// SkiPacket lists the skills of the character. Skills with a rank are
// written as vnum|rank.
type SkiPacket struct {
	Unknown            int32          `nos:"0"`
	PrimarySkillVNum   int32          `nos:"1"`
	SecondarySkillVNum int32          `nos:"2"`
	Skills             []SkiSubPacket `nos:"3,list,sep=space,elem=pipe"`
}

func (SkiPacket) Packet() {}

type SkiSubPacket struct {
	SkillVNum int32  `nos:"0"`
	Rank      *int16 `nos:"1,optional"`
}

func (SkiSubPacket) Packet() {}
