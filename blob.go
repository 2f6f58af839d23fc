package kuzu

import (
	"encoding/hex"
	"sync/atomic"
)

// Blob is the decode cache of one BLOB value. The payload is fetched and
// decoded on first access, whichever accessor comes first, and reused after.
type Blob struct {
	owner   *Value
	decoded bool
	buf     []byte
	pooled  bool
	spanned bool
}

var blobDecodes atomic.Uint64

// Blob returns the decode cache attached to a BLOB value. Every call returns
// the same *Blob.
func (v *Value) Blob() (*Blob, error) {
	if err := v.expect("BLOB", TypeBlob); err != nil {
		return nil, err
	}
	if v.blob == nil {
		v.blob = &Blob{owner: v}
	}
	return v.blob, nil
}

func (b *Blob) load() error {
	if err := b.owner.check(); err != nil {
		return err
	}
	if b.decoded {
		return nil
	}
	if null, _ := b.owner.IsNull(); null {
		return errorf(ErrTypeMismatch, "cannot read NULL BLOB as bytes")
	}
	raw, enc, err := b.owner.engine.ValueBlob(b.owner.handle)
	if err != nil {
		return &Error{Type: ErrGeneric, Message: "read BLOB", Cause: err}
	}
	blobDecodes.Add(1)
	switch enc {
	case BlobEscaped:
		b.buf, err = unescapeBlob(raw)
		if err != nil {
			return err
		}
		b.pooled = true
	default:
		b.buf = globalBufferPool.Get(len(raw))
		copy(b.buf, raw)
		b.pooled = true
	}
	b.decoded = true
	return nil
}

// Bytes returns a copy of the decoded payload that the caller owns.
func (b *Blob) Bytes() ([]byte, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out, nil
}

// Span returns the cached decoded payload without copying. The slice must
// not be modified. Once a span has been handed out the buffer is left to the
// garbage collector instead of going back to the pool, so the slice keeps its
// bytes after the value is closed.
func (b *Blob) Span() ([]byte, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	b.spanned = true
	return b.buf[:len(b.buf):len(b.buf)], nil
}

// Len returns the decoded length.
func (b *Blob) Len() (int, error) {
	if err := b.load(); err != nil {
		return 0, err
	}
	return len(b.buf), nil
}

func (b *Blob) release() {
	if b.pooled && !b.spanned {
		globalBufferPool.Put(b.buf)
	}
	b.buf = nil
	b.pooled = false
	b.spanned = false
}

// unescapeBlob decodes the engine's text form of a BLOB, where bytes that are
// not printable ASCII are written as \xHH.
func unescapeBlob(src []byte) ([]byte, error) {
	out := globalBufferPool.Get(len(src))
	n := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\\' && i+3 < len(src) && (src[i+1] == 'x' || src[i+1] == 'X') {
			if _, err := hex.Decode(out[n:n+1], src[i+2:i+4]); err != nil {
				globalBufferPool.Put(out)
				return nil, &Error{Type: ErrTypeMismatch, Message: "malformed BLOB escape", Cause: err}
			}
			n++
			i += 3
			continue
		}
		out[n] = src[i]
		n++
	}
	return out[:n], nil
}
