package vfs

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Codec encodes a whole tree.
type Codec interface {
	Name() string
	Marshal(t *Tree) ([]byte, error)
	Unmarshal(data []byte, t *Tree) error
}

// Codec identifiers stored in snapshot headers.
const (
	codecJSON byte = iota
	codecYAML
	codecTOML
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(t *Tree) ([]byte, error) {
	return sonic.ConfigStd.Marshal(t)
}

func (jsonCodec) Unmarshal(data []byte, t *Tree) error {
	return sonic.ConfigStd.Unmarshal(data, t)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(t *Tree) ([]byte, error) {
	return yaml.Marshal(t)
}

func (yamlCodec) Unmarshal(data []byte, t *Tree) error {
	return yaml.Unmarshal(data, t)
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }

func (tomlCodec) Marshal(t *Tree) ([]byte, error) {
	return toml.Marshal(t)
}

func (tomlCodec) Unmarshal(data []byte, t *Tree) error {
	return toml.Unmarshal(data, t)
}

// Built-in codecs.
var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
	TOML Codec = tomlCodec{}
)

var codecIDs = map[string]byte{
	"json": codecJSON,
	"yaml": codecYAML,
	"toml": codecTOML,
}

var codecsByID = map[byte]Codec{
	codecJSON: JSON,
	codecYAML: YAML,
	codecTOML: TOML,
}

// CodecByName returns the codec registered under name ("json", "yaml", "yml", "toml").
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return nil, fmt.Errorf("unknown snapshot codec %q", name)
}

// Decode parses data with codec, repairs maps left nil by the decoder and
// rejects trees where one name is both a directory and a file.
func Decode(codec Codec, data []byte) (*Tree, error) {
	var t Tree
	if err := codec.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Root == nil {
		return nil, fmt.Errorf("%s snapshot has no root", codec.Name())
	}
	if err := t.Root.ensure("/"); err != nil {
		return nil, err
	}
	return &t, nil
}
