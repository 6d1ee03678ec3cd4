package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS codecs for the records persisted by the storage backends.
// Field order is the wire order; append new fields at the end.

// ResumeMUS serializes Resume values.
var ResumeMUS = resumeMUS{}

// CandidateRecordMUS serializes CandidateRecord values.
var CandidateRecordMUS = candidateRecordMUS{}

type resumeMUS struct{}

func (resumeMUS) Marshal(v Resume, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.ContentHash, bs[n:])
	return n + timeMUS.Marshal(v.UploadedAt, bs[n:])
}

func (resumeMUS) Unmarshal(bs []byte) (v Resume, n int, err error) {
	var n1 int
	if v.Id, n1, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.ContentHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UploadedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (resumeMUS) Size(v Resume) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.ContentHash)
	return size + timeMUS.Size(v.UploadedAt)
}

type candidateRecordMUS struct{}

func (candidateRecordMUS) strings(v *CandidateRecord) []*string {
	return []*string{
		&v.Id, &v.Name, &v.Email, &v.Phone, &v.Education, &v.Experience,
		&v.Skills, &v.Summary, &v.SkillText, &v.KeySkills,
	}
}

func (c candidateRecordMUS) Marshal(v CandidateRecord, bs []byte) (n int) {
	for _, s := range c.strings(&v) {
		n += ord.String.Marshal(*s, bs[n:])
	}
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	return n + timeMUS.Marshal(v.UpdatedAt, bs[n:])
}

func (c candidateRecordMUS) Unmarshal(bs []byte) (v CandidateRecord, n int, err error) {
	var n1 int
	for _, s := range c.strings(&v) {
		if *s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	if v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (c candidateRecordMUS) Size(v CandidateRecord) (size int) {
	for _, s := range c.strings(&v) {
		size += ord.String.Size(*s)
	}
	size += timeMUS.Size(v.InsertedAt)
	return size + timeMUS.Size(v.UpdatedAt)
}

// timeMUS stores timestamps as Unix microseconds, with the zero time as 0.
var timeMUS = unixMicroMUS{}

type unixMicroMUS struct{}

func (unixMicroMUS) micros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func (m unixMicroMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(m.micros(t), bs)
}

func (unixMicroMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || us == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (m unixMicroMUS) Size(t time.Time) int {
	return varint.Int64.Size(m.micros(t))
}
