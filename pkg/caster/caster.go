package caster

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ChannelCaster converts values to and from the text payloads carried by
// a string pubsub.
type ChannelCaster[T any] interface {
	From(string) (T, error)
	To(T) (string, error)
}

type JSONChannelCaster[T any] struct{}

func (jc JSONChannelCaster[T]) From(data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, errors.Wrapf(err, "decode %T payload", v)
	}
	return v, nil
}

func (jc JSONChannelCaster[T]) To(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrapf(err, "encode %T payload", v)
	}
	return string(data), nil
}
