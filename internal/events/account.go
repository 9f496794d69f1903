package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ccoveille/go-safecast"

	"github.com/chainsink/geyser-sink/internal/store"
)

// AccountInfo is the closed set of account payload schema versions.
type AccountInfo interface {
	Version() string
	Keys() (pubkey []byte, owner []byte)
	ToRecord(slot uint64) (*store.Account, error)

	sealed()
}

// AccountInfoV1 is the legacy payload without a transaction signature.
type AccountInfoV1 struct {
	Pubkey       Bytes  `json:"pubkey"`
	Lamports     uint64 `json:"lamports"`
	Owner        Bytes  `json:"owner"`
	Executable   bool   `json:"executable"`
	RentEpoch    uint64 `json:"rent_epoch"`
	Data         Bytes  `json:"data"`
	WriteVersion uint64 `json:"write_version"`
}

type AccountInfoV2 struct {
	Pubkey       Bytes  `json:"pubkey"`
	Lamports     uint64 `json:"lamports"`
	Owner        Bytes  `json:"owner"`
	Executable   bool   `json:"executable"`
	RentEpoch    uint64 `json:"rent_epoch"`
	Data         Bytes  `json:"data"`
	WriteVersion uint64 `json:"write_version"`
	TxnSignature Bytes  `json:"txn_signature"`
}

func (a *AccountInfoV1) Version() string { return versionV1 }
func (a *AccountInfoV2) Version() string { return versionV2 }

func (a *AccountInfoV1) Keys() ([]byte, []byte) { return a.Pubkey, a.Owner }
func (a *AccountInfoV2) Keys() ([]byte, []byte) { return a.Pubkey, a.Owner }

func (a *AccountInfoV1) sealed() {}
func (a *AccountInfoV2) sealed() {}

func (a *AccountInfoV1) ToRecord(slot uint64) (*store.Account, error) {
	return newAccountRecord(slot, a.Pubkey, a.Owner, a.Lamports, a.Executable, a.RentEpoch, a.Data, a.WriteVersion, nil)
}

func (a *AccountInfoV2) ToRecord(slot uint64) (*store.Account, error) {
	return newAccountRecord(slot, a.Pubkey, a.Owner, a.Lamports, a.Executable, a.RentEpoch, a.Data, a.WriteVersion, a.TxnSignature)
}

func newAccountRecord(slot uint64, pubkey, owner []byte, lamports uint64, executable bool, rentEpoch uint64, data []byte, writeVersion uint64, txnSignature []byte) (*store.Account, error) {
	lamportsInt, err := toInt64("lamports", lamports)
	if err != nil {
		return nil, err
	}
	rentEpochInt, err := toInt64("rent_epoch", rentEpoch)
	if err != nil {
		return nil, err
	}
	writeVersionInt, err := toInt64("write_version", writeVersion)
	if err != nil {
		return nil, err
	}
	slotInt, err := toInt64("slot", slot)
	if err != nil {
		return nil, err
	}

	return &store.Account{
		Pubkey:       pubkey,
		Owner:        owner,
		Lamports:     lamportsInt,
		Executable:   executable,
		RentEpoch:    rentEpochInt,
		Data:         data,
		Slot:         slotInt,
		WriteVersion: writeVersionInt,
		TxnSignature: txnSignature,
	}, nil
}

func toInt64(field string, v uint64) (int64, error) {
	out, err := safecast.ToInt64(v)
	if err != nil {
		return 0, errors.Join(ErrRangeViolation, fmt.Errorf("%s: %d", field, v))
	}

	return out, nil
}

type UpdateAccount struct {
	Account   AccountInfo
	Slot      uint64
	IsStartup bool
}

func (u *UpdateAccount) UnmarshalJSON(data []byte) error {
	var aux struct {
		Account   json.RawMessage `json:"account"`
		Slot      uint64          `json:"slot"`
		IsStartup bool            `json:"is_startup"`
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	if len(aux.Account) == 0 {
		return errors.New("account field missing")
	}

	tag, raw, err := versionTag(aux.Account)
	if err != nil {
		return err
	}

	switch tag {
	case versionV1:
		info := &AccountInfoV1{}
		err = json.Unmarshal(raw, info)
		u.Account = info
	case versionV2:
		info := &AccountInfoV2{}
		err = json.Unmarshal(raw, info)
		u.Account = info
	default:
		return errors.Join(ErrUnsupportedVersion, fmt.Errorf("account info version %s", tag))
	}
	if err != nil {
		return err
	}

	u.Slot = aux.Slot
	u.IsStartup = aux.IsStartup

	return nil
}

// ToRecord converts the event into the canonical record. It fails with ErrRangeViolation if
// any unsigned field does not fit into int64.
func (u *UpdateAccount) ToRecord() (*store.Account, error) {
	return u.Account.ToRecord(u.Slot)
}
