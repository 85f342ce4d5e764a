package badger

import (
	"encoding/binary"

	"github.com/rjj101202/appalti-knowledge/core"
)

// Key prefixes for different data types. Every key that addresses tenant
// data embeds the tenant between the prefix and the fixed-width fields, so
// a prefix iteration can never cross a tenant boundary.
const (
	documentPrefix   = "docrec"
	documentKeyIdx   = "docnk"
	documentIDSeq    = "docrecseq"
	chunkPrefix      = "chkrec"
	chunkIDSeq       = "chkrecseq"
	generationPrefix = "chkgen"
)

// makeDocumentKey generates a key for a document by tenant and ID.
// Format: prefix:tenant:id
func makeDocumentKey(tenantID string, id core.ID) []byte {
	buf := makeTenantPrefix(documentPrefix, tenantID, 8)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[len(buf)-8:], uint64(id))
	return buf
}

// makeNaturalKeyKey generates a key for the natural-key index.
// Format: prefix:tenant:digest
func makeNaturalKeyKey(tenantID string, key core.ID) []byte {
	buf := makeTenantPrefix(documentKeyIdx, tenantID, 8)
	binary.BigEndian.PutUint64(buf[len(buf)-8:], uint64(key))
	return buf
}

// makeGenerationKey generates the key holding a document's current chunk
// generation. Format: prefix:tenant:documentID
func makeGenerationKey(tenantID string, documentID core.ID) []byte {
	buf := makeTenantPrefix(generationPrefix, tenantID, 8)
	binary.BigEndian.PutUint64(buf[len(buf)-8:], uint64(documentID))
	return buf
}

// makeChunkKey generates a key for one chunk of a document generation.
// Format: prefix:tenant:documentID:generation:index
func makeChunkKey(tenantID string, documentID core.ID, generation uint64, index int) []byte {
	buf := makeTenantPrefix(chunkPrefix, tenantID, 24)
	offset := len(buf) - 24
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], generation)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeChunkGenerationPrefix generates the iteration prefix covering every
// chunk of one document generation.
func makeChunkGenerationPrefix(tenantID string, documentID core.ID, generation uint64) []byte {
	buf := makeTenantPrefix(chunkPrefix, tenantID, 16)
	offset := len(buf) - 16
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makeChunkDocumentPrefix generates the iteration prefix covering every
// chunk of one document, across generations.
func makeChunkDocumentPrefix(tenantID string, documentID core.ID) []byte {
	buf := makeTenantPrefix(chunkPrefix, tenantID, 8)
	binary.BigEndian.PutUint64(buf[len(buf)-8:], uint64(documentID))
	return buf
}

// makeChunkTenantPrefix generates the iteration prefix covering every chunk
// of one tenant.
func makeChunkTenantPrefix(tenantID string) []byte {
	return makeTenantPrefix(chunkPrefix, tenantID, 0)
}

// makeDocumentTenantPrefix generates the iteration prefix covering every
// document of one tenant.
func makeDocumentTenantPrefix(tenantID string) []byte {
	return makeTenantPrefix(documentPrefix, tenantID, 0)
}

// makeTenantPrefix builds "prefix:" + length-prefixed tenant, followed by
// tail zero bytes for the caller to fill with fixed-width BigEndian fields.
// The length prefix guarantees one tenant's keys are never a byte-prefix of
// another's, so prefix iteration cannot leak across tenants.
func makeTenantPrefix(prefix, tenantID string, tail int) []byte {
	headLen := len(prefix) + 1 + 2 + len(tenantID)
	buf := make([]byte, headLen+tail)
	offset := copy(buf, prefix)
	buf[offset] = ':'
	offset++
	binary.BigEndian.PutUint16(buf[offset:], uint16(len(tenantID)))
	offset += 2
	copy(buf[offset:], tenantID)
	return buf
}

// chunkKeyFields extracts documentID and generation from a chunk key
// produced by makeChunkKey under the given tenant.
func chunkKeyFields(tenantID string, key []byte) (documentID core.ID, generation uint64, ok bool) {
	headLen := len(chunkPrefix) + 1 + 2 + len(tenantID)
	if len(key) != headLen+24 {
		return 0, 0, false
	}
	documentID = core.ID(binary.BigEndian.Uint64(key[headLen:]))
	generation = binary.BigEndian.Uint64(key[headLen+8:])
	return documentID, generation, true
}
