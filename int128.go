package kuzu

import (
	"fmt"
	"math/big"
	"strings"
)

// Int128 is a signed 128-bit integer in two's complement, laid out the way
// the engine's kuzu_int128_t is.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64    = new(big.Int).SetUint64(^uint64(0))
)

// Int128FromInt64 sign-extends v.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// Int128FromBig converts b, failing when it does not fit in 128 bits.
func Int128FromBig(b *big.Int) (Int128, error) {
	if b == nil {
		return Int128{}, errorf(ErrTypeMismatch, "nil big.Int")
	}
	if b.Cmp(maxInt128) > 0 || b.Cmp(minInt128) < 0 {
		return Int128{}, errorf(ErrOutOfRange, "%s overflows INT128", b.String())
	}
	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Int128{Lo: lo, Hi: int64(hi)}, nil
}

// ParseInt128 parses a base-10 integer, with an optional sign.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Int128{}, errorf(ErrTypeMismatch, "invalid INT128 literal %q", s)
	}
	return Int128FromBig(b)
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := new(big.Int).SetInt64(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// String renders i in base 10.
func (i Int128) String() string {
	return i.Big().String()
}

// Format implements fmt.Formatter for %d, %v and %s.
func (i Int128) Format(f fmt.State, verb rune) {
	i.Big().Format(f, verb)
}
