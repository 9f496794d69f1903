package events

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ccoveille/go-safecast"
)

// Bytes decodes raw key and data fields. Upstream serializes them as arrays of numbers; base64
// strings are accepted as well.
type Bytes []byte

func (b *Bytes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*b = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var encoded string
		err := json.Unmarshal(trimmed, &encoded)
		if err != nil {
			return err
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("failed to decode base64 byte array: %w", err)
		}

		*b = decoded
		return nil
	}

	var items []int
	err := json.Unmarshal(trimmed, &items)
	if err != nil {
		return err
	}

	out := make([]byte, len(items))
	for i, item := range items {
		v, err := safecast.ToUint8(item)
		if err != nil {
			return errors.Join(ErrInvalidByteArrayItem, fmt.Errorf("index %d: %d", i, item))
		}
		out[i] = v
	}

	*b = out
	return nil
}
