package videoreader

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

type Rational struct {
	Num int
	Den int
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r Rational) IsValid() bool {
	return r.Den > 0
}

func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// ToDuration converts a timestamp expressed in units of r into wall-clock
// time, truncating toward zero and saturating at the time.Duration range.
func (r Rational) ToDuration(ts int64) time.Duration {
	if r.Den == 0 {
		return 0
	}
	v := big.NewInt(ts)
	v.Mul(v, big.NewInt(int64(r.Num)))
	v.Mul(v, big.NewInt(int64(time.Second)))
	v.Quo(v, big.NewInt(int64(r.Den)))
	return time.Duration(saturateInt64(v))
}

// FromDuration is the inverse of ToDuration, truncating toward zero.
func (r Rational) FromDuration(d time.Duration) int64 {
	if r.Num == 0 {
		return 0
	}
	v := big.NewInt(int64(d))
	v.Mul(v, big.NewInt(int64(r.Den)))
	v.Quo(v, new(big.Int).Mul(big.NewInt(int64(r.Num)), big.NewInt(int64(time.Second))))
	return saturateInt64(v)
}

func saturateInt64(v *big.Int) int64 {
	switch {
	case v.IsInt64():
		return v.Int64()
	case v.Sign() < 0:
		return math.MinInt64
	default:
		return math.MaxInt64
	}
}
