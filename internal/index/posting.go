package index

import "sort"

// Field identifies which document field a posting belongs to. Title and body
// carry separate postings so title matches can be boosted at scoring time.
type Field uint8

const (
	FieldTitle Field = iota
	FieldBody

	numFields = 2
)

// Posting records one document's occurrences of a term within one field.
// Positions are strictly increasing token positions.
type Posting struct {
	DocID     string
	Freq      uint32
	Positions []uint32
}

// TermPostings holds the per-field posting lists for one term, each sorted by
// document id. Values are shared between snapshot generations and must never
// be mutated after publication.
type TermPostings struct {
	Fields [numFields][]Posting
}

func (tp *TermPostings) empty() bool {
	return len(tp.Fields[FieldTitle]) == 0 && len(tp.Fields[FieldBody]) == 0
}

// DocFreq is the number of distinct documents containing the term in either
// field, used for idf.
func (tp *TermPostings) DocFreq() int {
	title, body := tp.Fields[FieldTitle], tp.Fields[FieldBody]
	// Merge-count over two doc-id-sorted lists.
	n, i, j := 0, 0, 0
	for i < len(title) && j < len(body) {
		switch {
		case title[i].DocID == body[j].DocID:
			i++
			j++
		case title[i].DocID < body[j].DocID:
			i++
		default:
			j++
		}
		n++
	}
	return n + (len(title) - i) + (len(body) - j)
}

// clone returns a deep-enough copy for single-field modification: the slice
// for field f is copied, the other field's slice is shared.
func (tp *TermPostings) clone(f Field) *TermPostings {
	out := &TermPostings{}
	for i := range tp.Fields {
		if Field(i) == f {
			out.Fields[i] = append([]Posting(nil), tp.Fields[i]...)
		} else {
			out.Fields[i] = tp.Fields[i]
		}
	}
	return out
}

// insertPosting adds or replaces a document's posting in a doc-id-sorted
// list, keeping the order.
func insertPosting(list []Posting, p Posting) []Posting {
	i := sort.Search(len(list), func(i int) bool { return list[i].DocID >= p.DocID })
	if i < len(list) && list[i].DocID == p.DocID {
		list[i] = p
		return list
	}
	list = append(list, Posting{})
	copy(list[i+1:], list[i:])
	list[i] = p
	return list
}

// removePosting deletes a document's posting from a doc-id-sorted list.
func removePosting(list []Posting, docID string) []Posting {
	i := sort.Search(len(list), func(i int) bool { return list[i].DocID >= docID })
	if i < len(list) && list[i].DocID == docID {
		return append(list[:i:i], list[i+1:]...)
	}
	return list
}

// findPosting looks up a document in a doc-id-sorted list.
func findPosting(list []Posting, docID string) (Posting, bool) {
	i := sort.Search(len(list), func(i int) bool { return list[i].DocID >= docID })
	if i < len(list) && list[i].DocID == docID {
		return list[i], true
	}
	return Posting{}, false
}
