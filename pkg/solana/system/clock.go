package system

import (
	"time"

	"github.com/pkg/errors"

	"github.com/code-payments/governance-client/pkg/solana/binary"
)

const ClockAccountSize = 40

var ErrInvalidClockAccountSize = errors.New("invalid clock account size")

// Clock is the contents of the Clock sysvar. UnixTimestamp is the cluster's
// notion of now, which programs compare escrow and proposal times against.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/clock.rs#L104
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

func (c Clock) Marshal() []byte {
	res := make([]byte, ClockAccountSize)

	var offset int
	binary.PutUint64(res[offset:], c.Slot, &offset)
	binary.PutInt64(res[offset:], c.EpochStartTimestamp, &offset)
	binary.PutUint64(res[offset:], c.Epoch, &offset)
	binary.PutUint64(res[offset:], c.LeaderScheduleEpoch, &offset)
	binary.PutInt64(res[offset:], c.UnixTimestamp, &offset)

	return res
}

func (c *Clock) Unmarshal(data []byte) error {
	if len(data) != ClockAccountSize {
		return ErrInvalidClockAccountSize
	}

	var offset int
	binary.GetUint64(data[offset:], &c.Slot, &offset)
	binary.GetInt64(data[offset:], &c.EpochStartTimestamp, &offset)
	binary.GetUint64(data[offset:], &c.Epoch, &offset)
	binary.GetUint64(data[offset:], &c.LeaderScheduleEpoch, &offset)
	binary.GetInt64(data[offset:], &c.UnixTimestamp, &offset)

	return nil
}

// Time returns UnixTimestamp as a time.Time.
func (c Clock) Time() time.Time {
	return time.Unix(c.UnixTimestamp, 0)
}
