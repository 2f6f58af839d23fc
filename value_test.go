package kuzu_test

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

func TestNewValueTags(t *testing.T) {
	e := kuzutest.NewEngine()
	ts := time.Date(2024, 3, 4, 5, 6, 7, 8000, time.UTC)
	id := uuid.MustParse("a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11")

	tests := []struct {
		in   any
		tag  kuzu.DataType
		want any
	}{
		{true, kuzu.TypeBool, true},
		{42, kuzu.TypeInt64, int64(42)},
		{int32(-7), kuzu.TypeInt32, int32(-7)},
		{int16(300), kuzu.TypeInt16, int16(300)},
		{int8(-3), kuzu.TypeInt8, int8(-3)},
		{uint(9), kuzu.TypeUint64, uint64(9)},
		{uint32(9), kuzu.TypeUint32, uint32(9)},
		{uint16(9), kuzu.TypeUint16, uint16(9)},
		{uint8(9), kuzu.TypeUint8, uint8(9)},
		{float32(1.5), kuzu.TypeFloat, float32(1.5)},
		{2.25, kuzu.TypeDouble, 2.25},
		{"graph", kuzu.TypeString, "graph"},
		{ts, kuzu.TypeTimestamp, ts},
		{kuzu.Date{Year: 2020, Month: 2, Day: 29}, kuzu.TypeDate, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)},
		{90 * time.Minute, kuzu.TypeInterval, kuzu.Interval{Micros: (90 * time.Minute).Microseconds()}},
		{kuzu.Int128FromInt64(-5), kuzu.TypeInt128, kuzu.Int128FromInt64(-5)},
		{id, kuzu.TypeUUID, id},
		{kuzu.InternalID{TableID: 1, Offset: 2}, kuzu.TypeInternalID, kuzu.InternalID{TableID: 1, Offset: 2}},
		{[]byte{0, 1, 0xff}, kuzu.TypeBlob, []byte{0, 1, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			v, err := kuzu.NewValue(e, tt.in)
			require.NoError(t, err)
			defer v.Close()
			assert.Equal(t, tt.tag, v.Type())
			assert.Equal(t, kuzu.Owned, v.Ownership())
			got, err := v.Interface()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Zero(t, e.Stats().Live)
}

func TestValueBoundaries(t *testing.T) {
	e := kuzutest.NewEngine()
	tests := []struct {
		name string
		in   any
	}{
		{"int8 min", int8(math.MinInt8)},
		{"int8 max", int8(math.MaxInt8)},
		{"int16 min", int16(math.MinInt16)},
		{"int16 max", int16(math.MaxInt16)},
		{"int32 min", int32(math.MinInt32)},
		{"int32 max", int32(math.MaxInt32)},
		{"int64 min", int64(math.MinInt64)},
		{"int64 max", int64(math.MaxInt64)},
		{"uint8 max", uint8(math.MaxUint8)},
		{"uint16 max", uint16(math.MaxUint16)},
		{"uint32 max", uint32(math.MaxUint32)},
		{"uint64 max", uint64(math.MaxUint64)},
		{"uint64 zero", uint64(0)},
		{"float max", float32(math.MaxFloat32)},
		{"float min", float32(-math.MaxFloat32)},
		{"float smallest", float32(math.SmallestNonzeroFloat32)},
		{"double max", math.MaxFloat64},
		{"double min", -math.MaxFloat64},
		{"double smallest", math.SmallestNonzeroFloat64},
		{"double zero", 0.0},
		{"empty string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := kuzu.NewValue(e, tt.in)
			require.NoError(t, err)
			defer v.Close()
			got, err := v.Interface()
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}

	t.Run("negative zero", func(t *testing.T) {
		v, err := kuzu.NewValue(e, math.Copysign(0, -1))
		require.NoError(t, err)
		defer v.Close()
		d, err := v.GetDouble()
		require.NoError(t, err)
		assert.Zero(t, d)
		assert.True(t, math.Signbit(d))

		f, err := kuzu.NewValue(e, float32(math.Copysign(0, -1)))
		require.NoError(t, err)
		defer f.Close()
		got, err := f.Interface()
		require.NoError(t, err)
		assert.True(t, math.Signbit(float64(got.(float32))))
	})

	assert.Zero(t, e.Stats().Live)
}

func TestTimestampBoundaries(t *testing.T) {
	e := kuzutest.NewEngine()
	epoch := time.Unix(0, 0).UTC()
	first := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	tests := []struct {
		tag    kuzu.DataType
		values []time.Time
	}{
		{kuzu.TypeTimestampSec, []time.Time{epoch, first, last}},
		{kuzu.TypeTimestampMs, []time.Time{epoch, first, last.Add(999 * time.Millisecond)}},
		{kuzu.TypeTimestamp, []time.Time{epoch, first, last.Add(999999 * time.Microsecond)}},
		{kuzu.TypeTimestampTz, []time.Time{epoch, first, last.Add(999999 * time.Microsecond)}},
		{kuzu.TypeTimestampNs, []time.Time{
			epoch,
			time.Date(1678, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2261, 12, 31, 23, 59, 59, 999999999, time.UTC),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			for _, ts := range tt.values {
				v, err := kuzu.NewTypedValue(e, tt.tag, ts)
				require.NoError(t, err, "%s", ts)
				got, err := v.GetTimestamp()
				v.Close()
				require.NoError(t, err)
				assert.True(t, ts.Equal(got), "want %s, got %s", ts, got)
			}
		})
	}

	_, err := kuzu.NewTypedValue(e, kuzu.TypeTimestampNs, last)
	assert.True(t, kuzu.IsError(err, kuzu.ErrOutOfRange))
	assert.Zero(t, e.Stats().Live)
}

func TestNewTypedValue(t *testing.T) {
	e := kuzutest.NewEngine()
	ts := time.Date(2024, 3, 4, 5, 6, 7, 123456789, time.UTC)

	v, err := kuzu.NewTypedValue(e, kuzu.TypeTimestampNs, ts)
	require.NoError(t, err)
	got, err := v.GetTimestamp()
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
	v.Close()

	v, err = kuzu.NewTypedValue(e, kuzu.TypeDate, ts)
	require.NoError(t, err)
	d, err := v.GetDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), d)
	v.Close()

	v, err = kuzu.NewTypedValue(e, kuzu.TypeInt128, big.NewInt(-99))
	require.NoError(t, err)
	i, err := v.GetInt128()
	require.NoError(t, err)
	assert.Equal(t, "-99", i.String())
	v.Close()

	_, err = kuzu.NewTypedValue(e, kuzu.TypeInt8, 300)
	assert.True(t, kuzu.IsError(err, kuzu.ErrOutOfRange))
	_, err = kuzu.NewTypedValue(e, kuzu.TypeUint16, -1)
	assert.True(t, kuzu.IsError(err, kuzu.ErrTypeMismatch))
	_, err = kuzu.NewTypedValue(e, kuzu.TypeUUID, "not-a-uuid")
	assert.True(t, kuzu.IsError(err, kuzu.ErrTypeMismatch))
	_, err = kuzu.NewTypedValue(e, kuzu.TypeList, 1)
	assert.True(t, kuzu.IsError(err, kuzu.ErrNotSupported))

	assert.Zero(t, e.Stats().Live)
}

func TestValueAccessors(t *testing.T) {
	e := kuzutest.NewEngine()
	v, err := kuzu.NewValue(e, int64(7))
	require.NoError(t, err)
	defer v.Close()

	n, err := v.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = v.GetString()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)
	_, err = v.GetInt32()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)
	_, err = v.Len()
	assert.ErrorIs(t, err, kuzu.ErrTypeMismatchAccess)

	s, err := v.DisplayString()
	require.NoError(t, err)
	assert.Equal(t, "7", s)
}

func TestValueNull(t *testing.T) {
	e := kuzutest.NewEngine()

	v, err := kuzu.NullValue(e)
	require.NoError(t, err)
	null, err := v.IsNull()
	require.NoError(t, err)
	assert.True(t, null)
	x, err := v.Interface()
	require.NoError(t, err)
	assert.Nil(t, x)
	v.Close()

	var p *string
	v, err = kuzu.NewValue(e, p)
	require.NoError(t, err)
	assert.Equal(t, kuzu.TypeString, v.Type())
	_, err = v.GetString()
	assert.True(t, kuzu.IsError(err, kuzu.ErrTypeMismatch))
	v.Close()

	v, err = kuzu.NewValue(e, "x")
	require.NoError(t, err)
	require.NoError(t, v.SetNull(true))
	null, _ = v.IsNull()
	assert.True(t, null)
	require.NoError(t, v.SetNull(false))
	s, err := v.GetString()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	v.Close()

	assert.Zero(t, e.Stats().Live)
}

func TestValueCloneAndClose(t *testing.T) {
	e := kuzutest.NewEngine()
	v, err := kuzu.NewValue(e, "original")
	require.NoError(t, err)

	c, err := v.Clone()
	require.NoError(t, err)
	require.NoError(t, v.Close())
	require.NoError(t, v.Close())
	assert.True(t, v.Disposed())

	_, err = v.GetString()
	assert.ErrorIs(t, err, kuzu.ErrDisposedAccess)
	assert.Equal(t, "<disposed>", v.String())

	s, err := c.GetString()
	require.NoError(t, err)
	assert.Equal(t, "original", s)
	require.NoError(t, c.Close())

	stats := e.Stats()
	assert.Zero(t, stats.Live)
	assert.Zero(t, stats.DoubleDestroys)
}

func TestUnsupportedGoType(t *testing.T) {
	e := kuzutest.NewEngine()
	_, err := kuzu.NewValue(e, struct{ A int }{1})
	assert.ErrorIs(t, err, kuzu.ErrUnsupportedMember)
	_, err = kuzu.NewValue(e, map[string]int{})
	assert.Error(t, err)
}
