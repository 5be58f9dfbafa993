package packets

import (
	"github.com/zoobzio/nosline"
)

// Register adds every packet of the catalog to r.
func Register(r *nosline.Registry) error {
	for _, register := range catalog {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(r *nosline.Registry) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// NewRegistry returns a registry holding the whole catalog.
func NewRegistry() (*nosline.Registry, error) {
	r := nosline.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

func server[T nosline.Packet](headers ...string) func(*nosline.Registry) error {
	return func(r *nosline.Registry) error {
		return nosline.Register[T](r, nosline.SourceServer, headers...)
	}
}

func client[T nosline.Packet](headers ...string) func(*nosline.Registry) error {
	return func(r *nosline.Registry) error {
		return nosline.Register[T](r, nosline.SourceClient, headers...)
	}
}

var catalog = []func(*nosline.Registry) error{
	// Server
	server[InPacket]("in"),
	server[StPacket]("st"),
	server[MovePacket]("mv"),
	server[ThrowPacket]("throw"),
	server[CModePacket]("c_mode"),
	server[EqPacket]("eq"),
	server[GidxPacket]("gidx"),
	server[PinitPacket]("pinit"),
	server[PstPacket]("pst"),
	server[RaidPacket]("raid", "raidf"),
	server[FcPacket]("fc"),
	server[SayServerPacket]("say"),
	server[SayitemtPacket]("sayitemt"),
	server[MlInfoPacket]("mlinfo"),
	server[TwkPacket]("twk"),
	server[SuPacket]("su"),
	server[BsPacket]("bs"),
	server[CtPacket]("ct"),
	server[SkiPacket]("ski"),
	server[CListStartPacket]("clist_start"),
	server[CListPacket]("clist"),
	server[CListEndPacket]("clist_end"),
	server[LevPacket]("lev"),

	// Client
	client[SayPacket]("say"),
	client[WalkPacket]("walk"),
	client[PtctlPacket]("ptctl"),
	client[PulsePacket]("pulse"),
}
