package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	resumePrefix         = "res:"
	resumeHashPrefix     = "reshash:"
	resumeOrderPrefix    = "resord:"
	resumeSeq            = "resseq"
	candidatePrefix      = "cand:"
	candidateOrderPrefix = "candord:"
	candidatePosPrefix   = "candpos:"
	candidateSeq         = "candseq"
)

// makeResumeKey generates a key for a resume by ID.
func makeResumeKey(id string) []byte {
	return []byte(resumePrefix + id)
}

// makeResumeHashKey generates the content hash lookup key for a resume.
func makeResumeHashKey(hash string) []byte {
	return []byte(resumeHashPrefix + hash)
}

// makeResumeOrderKey generates the upload order index key.
// Format: prefix + big-endian position
func makeResumeOrderKey(pos uint64) []byte {
	return makeOrderKey(resumeOrderPrefix, pos)
}

// makeCandidateKey generates a key for a candidate record by ID.
func makeCandidateKey(id string) []byte {
	return []byte(candidatePrefix + id)
}

// makeCandidateOrderKey generates the insertion order index key.
// Format: prefix + big-endian position
func makeCandidateOrderKey(pos uint64) []byte {
	return makeOrderKey(candidateOrderPrefix, pos)
}

// makeCandidatePosKey maps a candidate ID back to its insertion position.
func makeCandidatePosKey(id string) []byte {
	return []byte(candidatePosPrefix + id)
}

func makeOrderKey(prefix string, pos uint64) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

func encodePosition(pos uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, pos)
}

func decodePosition(val []byte) uint64 {
	if len(val) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(val)
}
