package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

type Kind string

const (
	KindUpdateAccount Kind = "UpdateAccount"
	KindUpdateSlot    Kind = "UpdateSlot"
	KindNotifyBlock   Kind = "NotifyBlock"
)

var Kinds = []Kind{KindUpdateAccount, KindUpdateSlot, KindNotifyBlock}

const (
	versionV1 = "V0_0_1"
	versionV2 = "V0_0_2"
)

var (
	ErrInvalidUTF8          = errors.New("payload is not valid UTF-8")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrUnsupportedVersion   = errors.New("unsupported schema version")
	ErrRangeViolation       = errors.New("value exceeds signed 64-bit range")
	ErrUnknownSlotStatus    = errors.New("unknown slot status")
	ErrUnknownRewardType    = errors.New("unknown reward type")
	ErrInvalidByteArrayItem = errors.New("byte array item out of range")
)

func decode[T any](payload []byte) (*T, error) {
	if !utf8.Valid(payload) {
		return nil, ErrInvalidUTF8
	}

	v := new(T)
	err := json.Unmarshal(payload, v)
	if err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}

	return v, nil
}

func DecodeUpdateAccount(payload []byte) (*UpdateAccount, error) {
	return decode[UpdateAccount](payload)
}

func DecodeUpdateSlotStatus(payload []byte) (*UpdateSlotStatus, error) {
	return decode[UpdateSlotStatus](payload)
}

func DecodeNotifyBlockMetaData(payload []byte) (*NotifyBlockMetaData, error) {
	return decode[NotifyBlockMetaData](payload)
}

// versionTag unpacks an externally tagged envelope of the form {"<tag>": {...}}.
func versionTag(data []byte) (string, json.RawMessage, error) {
	var tagged map[string]json.RawMessage
	err := json.Unmarshal(data, &tagged)
	if err != nil {
		return "", nil, err
	}

	if len(tagged) != 1 {
		return "", nil, errors.Join(ErrUnsupportedVersion, fmt.Errorf("expected a single version tag, got %d", len(tagged)))
	}

	for tag, raw := range tagged {
		return tag, raw, nil
	}

	return "", nil, ErrUnsupportedVersion
}
