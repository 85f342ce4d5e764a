package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. Time fields are encoded
// as Unix microseconds; embeddings as a length-prefixed run of raw float32s.
var (
	IDMUS       = idMUS{}
	ScopeMUS    = scopeMUS{}
	DocumentMUS = documentMUS{}
	ChunkMUS    = chunkMUS{}

	timeMUS      = timeMicroMUS{}
	embeddingMUS = float32SliceMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type scopeMUS struct{}

func (s scopeMUS) Marshal(v Scope, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s scopeMUS) Unmarshal(bs []byte) (Scope, int, error) {
	v, n, err := ord.String.Unmarshal(bs)
	return Scope(v), n, err
}

func (s scopeMUS) Size(v Scope) int {
	return ord.String.Size(string(v))
}

func (s scopeMUS) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

type timeMicroMUS struct{}

func (s timeMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMicroMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (s timeMicroMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

type float32SliceMUS struct{}

func (s float32SliceMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (s float32SliceMUS) Unmarshal(bs []byte) ([]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length <= 0 {
		return nil, n, nil
	}
	v := make([]float32, length)
	for i := 0; i < length; i++ {
		f, c, err := raw.Float32.Unmarshal(bs[n:])
		n += c
		if err != nil {
			return nil, n, err
		}
		v[i] = f
	}
	return v, n, nil
}

func (s float32SliceMUS) Size(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.TenantID, bs[n:])
	n += ScopeMUS.Marshal(v.Scope, bs[n:])
	n += ord.String.Marshal(v.CompanyID, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Path, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += ord.String.Marshal(v.MimeType, bs[n:])
	n += varint.Int64.Marshal(v.Size, bs[n:])
	n += ord.String.Marshal(v.Checksum, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	var c int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.TenantID, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Scope, c, err = ScopeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.CompanyID, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Title, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Path, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.SourceURL, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.MimeType, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Size, c, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Checksum, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.CreatedAt, c, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.UpdatedAt, c, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	return v, n, nil
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.TenantID)
	size += ScopeMUS.Size(v.Scope)
	size += ord.String.Size(v.CompanyID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Path)
	size += ord.String.Size(v.SourceURL)
	size += ord.String.Size(v.MimeType)
	size += varint.Int64.Size(v.Size)
	size += ord.String.Size(v.Checksum)
	size += timeMUS.Size(v.CreatedAt)
	size += timeMUS.Size(v.UpdatedAt)
	return size
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.DocumentID, bs[n:])
	n += ord.String.Marshal(v.TenantID, bs[n:])
	n += ScopeMUS.Marshal(v.Scope, bs[n:])
	n += ord.String.Marshal(v.CompanyID, bs[n:])
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += embeddingMUS.Marshal(v.Embedding, bs[n:])
	return n
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var c int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.DocumentID, c, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.TenantID, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Scope, c, err = ScopeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.CompanyID, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Index, c, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Text, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	if v.Embedding, c, err = embeddingMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + c, err
	}
	n += c
	return v, n, nil
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.DocumentID)
	size += ord.String.Size(v.TenantID)
	size += ScopeMUS.Size(v.Scope)
	size += ord.String.Size(v.CompanyID)
	size += varint.Int.Size(v.Index)
	size += ord.String.Size(v.Text)
	size += embeddingMUS.Size(v.Embedding)
	return size
}
