package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Drug is one entry in the reference set. FDAGenericName is the generic
// name as it appears in the upstream provider's records and is the name
// used for upstream queries; Name is the canonical display name.
type Drug struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	CommonUses     []string `json:"common_uses"`
	FDAGenericName string   `json:"fda_generic_name"`
}

// Set is an immutable collection of reference drugs with a
// case-insensitive index over brand and generic names. A Set is
// read-only after construction and safe for concurrent use.
type Set struct {
	drugs []Drug
	index map[string]Drug
}

// NewSet builds a Set from the given drugs. Both the display name and
// the generic name of each drug become lookup keys.
func NewSet(drugs []Drug) *Set {
	s := &Set{
		drugs: make([]Drug, len(drugs)),
		index: make(map[string]Drug, len(drugs)*2),
	}
	copy(s.drugs, drugs)
	for _, d := range s.drugs {
		s.index[strings.ToLower(d.Name)] = d
		s.index[strings.ToLower(d.FDAGenericName)] = d
	}
	return s
}

// Load reads a Set from a JSON reference file of the form
// {"drugs": [{"id": 1, "name": ..., ...}, ...]}.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: read reference file: %w", err)
	}

	var doc struct {
		Drugs []Drug `json:"drugs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("refdata: parse reference file: %w", err)
	}
	if len(doc.Drugs) == 0 {
		return nil, errors.New("refdata: reference file contains no drugs")
	}

	return NewSet(doc.Drugs), nil
}

// Validate looks up name case-insensitively against brand and generic
// names and returns the matching reference entry. Unknown names fail
// with *UnknownDrugError carrying substring matches as suggestions.
func (s *Set) Validate(name string) (Drug, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Drug{}, &UnknownDrugError{Name: name}
	}

	if d, ok := s.index[key]; ok {
		return d, nil
	}

	var suggestions []string
	for _, d := range s.Search(key) {
		suggestions = append(suggestions, d.Name)
	}
	return Drug{}, &UnknownDrugError{Name: name, Suggestions: suggestions}
}

// Search returns every drug whose display or generic name contains the
// query, case-insensitively, in reference-set order.
func (s *Set) Search(query string) []Drug {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Drug
	for _, d := range s.drugs {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.FDAGenericName), q) {
			matches = append(matches, d)
		}
	}
	return matches
}

// Drugs returns a copy of the reference entries in set order.
func (s *Set) Drugs() []Drug {
	out := make([]Drug, len(s.drugs))
	copy(out, s.drugs)
	return out
}

// Len returns the number of reference entries.
func (s *Set) Len() int {
	return len(s.drugs)
}

// BuiltIn returns the default reference set of common medications.
func BuiltIn() *Set {
	return NewSet([]Drug{
		{ID: 1, Name: "Ibuprofen", Category: "NSAID", CommonUses: []string{"pain relief", "fever reduction", "inflammation"}, FDAGenericName: "IBUPROFEN"},
		{ID: 2, Name: "Aspirin", Category: "NSAID", CommonUses: []string{"pain relief", "fever reduction", "blood clot prevention"}, FDAGenericName: "ASPIRIN"},
		{ID: 3, Name: "Acetaminophen", Category: "Analgesic", CommonUses: []string{"pain relief", "fever reduction"}, FDAGenericName: "ACETAMINOPHEN"},
		{ID: 4, Name: "Naproxen", Category: "NSAID", CommonUses: []string{"pain relief", "inflammation", "arthritis"}, FDAGenericName: "NAPROXEN"},
		{ID: 5, Name: "Metformin", Category: "Antidiabetic", CommonUses: []string{"type 2 diabetes"}, FDAGenericName: "METFORMIN"},
		{ID: 6, Name: "Lisinopril", Category: "ACE inhibitor", CommonUses: []string{"high blood pressure", "heart failure"}, FDAGenericName: "LISINOPRIL"},
		{ID: 7, Name: "Atorvastatin", Category: "Statin", CommonUses: []string{"high cholesterol"}, FDAGenericName: "ATORVASTATIN"},
		{ID: 8, Name: "Omeprazole", Category: "Proton pump inhibitor", CommonUses: []string{"acid reflux", "ulcers"}, FDAGenericName: "OMEPRAZOLE"},
		{ID: 9, Name: "Amoxicillin", Category: "Antibiotic", CommonUses: []string{"bacterial infections"}, FDAGenericName: "AMOXICILLIN"},
		{ID: 10, Name: "Levothyroxine", Category: "Thyroid hormone", CommonUses: []string{"hypothyroidism"}, FDAGenericName: "LEVOTHYROXINE"},
		{ID: 11, Name: "Amlodipine", Category: "Calcium channel blocker", CommonUses: []string{"high blood pressure", "angina"}, FDAGenericName: "AMLODIPINE"},
		{ID: 12, Name: "Simvastatin", Category: "Statin", CommonUses: []string{"high cholesterol"}, FDAGenericName: "SIMVASTATIN"},
	})
}
