package capture

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/nosline"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

// jsonCodec implements nosline.Codec for JSON.
type jsonCodec struct{}

// JSON returns a JSON codec.
func JSON() nosline.Codec {
	return &jsonCodec{}
}

func (c *jsonCodec) ContentType() string {
	return "application/json"
}

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// xmlCodec implements nosline.Codec for XML.
type xmlCodec struct{}

// XML returns an XML codec.
func XML() nosline.Codec {
	return &xmlCodec{}
}

func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// yamlCodec implements nosline.Codec for YAML.
type yamlCodec struct{}

// YAML returns a YAML codec.
func YAML() nosline.Codec {
	return &yamlCodec{}
}

func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// msgpackCodec implements nosline.Codec for MessagePack.
type msgpackCodec struct{}

// MsgPack returns a MessagePack codec.
func MsgPack() nosline.Codec {
	return &msgpackCodec{}
}

func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// bsonCodec implements nosline.Codec for BSON. Only documents can be
// marshaled: structs, maps and bson.D.
type bsonCodec struct{}

// BSON returns a BSON codec.
func BSON() nosline.Codec {
	return &bsonCodec{}
}

func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// CodecByName returns the codec named json, xml, yaml, msgpack or bson.
func CodecByName(name string) (nosline.Codec, error) {
	switch name {
	case "json":
		return JSON(), nil
	case "xml":
		return XML(), nil
	case "yaml":
		return YAML(), nil
	case "msgpack":
		return MsgPack(), nil
	case "bson":
		return BSON(), nil
	}
	return nil, fmt.Errorf("unknown capture codec %q", name)
}
