package storage

import (
	"encoding/json"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Write is one entry of an Apply batch. Delete removes Key and ignores Value.
type Write struct {
	Key    string
	Value  []byte
	Delete bool
}

func Put(key string, value []byte) Write {
	return Write{Key: key, Value: value}
}

func Remove(key string) Write {
	return Write{Key: key, Delete: true}
}

// Codec turns persisted values into bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
