package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainsink/geyser-sink/internal/store"
)

type Reward struct {
	Pubkey      string  `json:"pubkey"`
	Lamports    int64   `json:"lamports"`
	PostBalance uint64  `json:"post_balance"`
	RewardType  *string `json:"reward_type"`
	Commission  *uint8  `json:"commission"`
}

type BlockInfoV1 struct {
	Slot        uint64   `json:"slot"`
	Blockhash   string   `json:"blockhash"`
	Rewards     []Reward `json:"rewards"`
	BlockTime   *int64   `json:"block_time"`
	BlockHeight *uint64  `json:"block_height"`
}

type NotifyBlockMetaData struct {
	BlockInfo *BlockInfoV1
}

func (n *NotifyBlockMetaData) UnmarshalJSON(data []byte) error {
	var aux struct {
		BlockInfo json.RawMessage `json:"block_info"`
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	if len(aux.BlockInfo) == 0 {
		return errors.New("block_info field missing")
	}

	tag, raw, err := versionTag(aux.BlockInfo)
	if err != nil {
		return err
	}

	if tag != versionV1 {
		return errors.Join(ErrUnsupportedVersion, fmt.Errorf("block info version %s", tag))
	}

	info := &BlockInfoV1{}
	err = json.Unmarshal(raw, info)
	if err != nil {
		return err
	}

	n.BlockInfo = info
	return nil
}

func (n *NotifyBlockMetaData) ToRecord() (*store.Block, error) {
	info := n.BlockInfo
	if info == nil {
		return nil, errors.New("block info missing")
	}

	slot, err := toInt64("slot", info.Slot)
	if err != nil {
		return nil, err
	}

	block := &store.Block{
		Slot:      slot,
		Blockhash: info.Blockhash,
		Rewards:   make([]store.Reward, 0, len(info.Rewards)),
		BlockTime: info.BlockTime,
	}

	if info.BlockHeight != nil {
		height, err := toInt64("block_height", *info.BlockHeight)
		if err != nil {
			return nil, err
		}
		block.BlockHeight = &height
	}

	for _, r := range info.Rewards {
		reward, err := r.toRecord()
		if err != nil {
			return nil, err
		}
		block.Rewards = append(block.Rewards, reward)
	}

	return block, nil
}

func (r Reward) toRecord() (store.Reward, error) {
	postBalance, err := toInt64("post_balance", r.PostBalance)
	if err != nil {
		return store.Reward{}, err
	}

	reward := store.Reward{
		Pubkey:      r.Pubkey,
		Lamports:    r.Lamports,
		PostBalance: postBalance,
	}

	if r.RewardType != nil {
		rewardType := store.RewardType(*r.RewardType)
		if !rewardType.IsValid() {
			return store.Reward{}, errors.Join(ErrUnknownRewardType, fmt.Errorf("reward type: %s", *r.RewardType))
		}
		reward.RewardType = &rewardType
	}

	if r.Commission != nil {
		commission := int16(*r.Commission)
		reward.Commission = &commission
	}

	return reward, nil
}
