package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainsink/geyser-sink/internal/store"
)

type SlotStatus string

func (s *SlotStatus) UnmarshalJSON(data []byte) error {
	var status string
	err := json.Unmarshal(data, &status)
	if err != nil {
		return err
	}

	if !store.SlotStatusType(status).IsValid() {
		return errors.Join(ErrUnknownSlotStatus, fmt.Errorf("status: %s", status))
	}

	*s = SlotStatus(status)
	return nil
}

type UpdateSlotStatus struct {
	Slot   uint64     `json:"slot"`
	Parent *uint64    `json:"parent"`
	Status SlotStatus `json:"status"`
}

func (u *UpdateSlotStatus) ToRecord() (*store.SlotStatus, error) {
	slot, err := toInt64("slot", u.Slot)
	if err != nil {
		return nil, err
	}

	record := &store.SlotStatus{
		Slot:   slot,
		Status: store.SlotStatusType(u.Status),
	}

	if u.Parent != nil {
		parent, err := toInt64("parent", *u.Parent)
		if err != nil {
			return nil, err
		}
		record.Parent = &parent
	}

	return record, nil
}
