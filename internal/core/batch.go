package core

// PolicyRecord is one checked policy number. Records are never modified
// after assembly; a new file produces a new slice.
type PolicyRecord struct {
	PolicyNumber string `json:"policyNumber"`
	IsValid      bool   `json:"isValid"`
}

// Assemble checks every token independently and returns one record per
// token in the same order. Duplicates are kept.
func Assemble(tokens []string) []PolicyRecord {
	records := make([]PolicyRecord, len(tokens))
	for i, tok := range tokens {
		records[i] = PolicyRecord{
			PolicyNumber: tok,
			IsValid:      ValidChecksum(tok),
		}
	}
	return records
}

// ValidCount returns how many records passed the checksum.
func ValidCount(records []PolicyRecord) int {
	n := 0
	for _, r := range records {
		if r.IsValid {
			n++
		}
	}
	return n
}

func cloneRecords(records []PolicyRecord) []PolicyRecord {
	out := make([]PolicyRecord, len(records))
	copy(out, records)
	return out
}
