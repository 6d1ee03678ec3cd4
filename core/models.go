package core

import (
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ContentHash returns a deterministic hex digest of text using BLAKE2b.
// Identical content always produces the identical hash, so it is used to
// detect resumes that were uploaded more than once.
func ContentHash(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Resume is the raw text of an uploaded resume.
type Resume struct {
	Id          string
	Content     string
	ContentHash string    // BLAKE2b digest of Content
	UploadedAt  time.Time // When the resume was stored
}

// CandidateRecord is the structured profile extracted from a resume.
// It shares its Id with the Resume it was extracted from.
type CandidateRecord struct {
	Id         string
	Name       string
	Email      string
	Phone      string
	Education  string
	Experience string
	Skills     string // Free-form skills text as extracted from the resume
	Summary    string
	SkillText  string // Canonical text embedded into the vector index
	KeySkills  string // Serialized JSON array of individual skill terms
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Eligible reports whether the record can be added to the vector index.
// Only records with a non-blank SkillText are indexed.
func (r *CandidateRecord) Eligible() bool {
	return r != nil && strings.TrimSpace(r.SkillText) != ""
}

// HasKeySkills reports whether key skills were ever extracted for the record.
func (r *CandidateRecord) HasKeySkills() bool {
	return strings.TrimSpace(r.KeySkills) != ""
}

// FlatSkills decodes the KeySkills payload into an ordered list of skills.
// An unset payload yields an empty list. A payload that is not a JSON array
// of strings yields an empty list and ErrMalformedSkills.
func (r *CandidateRecord) FlatSkills() ([]string, error) {
	return ParseSkills(r.KeySkills)
}

// SetKeySkills stores skills as the record's KeySkills payload and derives
// SkillText from them.
func (r *CandidateRecord) SetKeySkills(skills []string) error {
	if skills == nil {
		skills = []string{}
	}
	payload, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	r.KeySkills = string(payload)
	r.SkillText = strings.Join(skills, ", ")
	return nil
}

// ParseSkills decodes a serialized JSON array of skill strings, dropping
// blank entries.
func ParseSkills(payload string) ([]string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return []string{}, nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(payload), &skills); err != nil {
		return []string{}, ErrMalformedSkills
	}
	if skills == nil {
		return []string{}, nil
	}
	// null and blank elements are not skills.
	return slices.DeleteFunc(skills, func(skill string) bool {
		return strings.TrimSpace(skill) == ""
	}), nil
}

// Match is a candidate reported by a similarity search, together with the
// single skill that matched the query best.
type Match struct {
	Id           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	MatchedSkill string  `json:"matched_skill"`
	Score        float64 `json:"score"` // Similarity scaled to [0,100], three significant decimals of similarity
}
