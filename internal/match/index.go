package match

import "sort"

// DefaultCandidateCap bounds the candidate set returned per query record so a
// single lookup never degenerates into an all-records comparison.
const DefaultCandidateCap = 50

// Index is an immutable trigram inverted index over record projections. It is
// the coarse tier of the two-tier matcher: it narrows an all-pairs comparison
// to a small candidate set per record, so a batch scan over N records costs
// roughly O(N·k) scorer invocations instead of O(N²).
//
// The index is read-only after construction and safe for concurrent use.
// Callers build one per detection call from the active record set; tombstoned
// records are excluded upstream and never enter the index.
type Index struct {
	records []Record
	keys    []string          // normalized key text per record position
	grams   []map[string]struct{}
	inv     map[string][]int  // trigram -> record positions, insertion order
}

// indexKey picks the text a record is indexed under: the normalized primary
// field, falling back to the secondary when the primary is empty. Records
// with both fields empty return "" and are indexed under nothing (they cannot
// be meaningfully matched).
func indexKey(r Record) string {
	if k := Normalize(r.Primary); k != "" {
		return k
	}
	return Normalize(r.Secondary)
}

// NewIndex builds an Index over records. Construction is O(total trigrams).
func NewIndex(records []Record) *Index {
	ix := &Index{
		records: records,
		keys:    make([]string, len(records)),
		grams:   make([]map[string]struct{}, len(records)),
		inv:     make(map[string][]int),
	}
	for i, r := range records {
		key := indexKey(r)
		ix.keys[i] = key
		if key == "" {
			continue
		}
		set := trigramSet(key)
		ix.grams[i] = set
		for g := range set {
			ix.inv[g] = append(ix.inv[g], i)
		}
	}
	return ix
}

// Len returns the number of indexed records (including unindexable ones).
func (ix *Index) Len() int { return len(ix.records) }

// Candidates returns up to limit records worth scoring against q, ordered by
// shared-trigram count descending (id ascending on ties, for determinism).
// The query record itself is always excluded. A candidate must share at
// least a quarter of the query's trigrams (minimum one), which keeps the
// candidate set tight without missing token-reordered or lightly edited
// near-duplicates. A query with both fields empty yields no candidates.
func (ix *Index) Candidates(q Record, limit int) []Record {
	if limit <= 0 {
		limit = DefaultCandidateCap
	}
	key := indexKey(q)
	if key == "" {
		return nil
	}
	qGrams := trigramSet(key)

	hits := make(map[int]int)
	for g := range qGrams {
		for _, pos := range ix.inv[g] {
			hits[pos]++
		}
	}
	if len(hits) == 0 {
		return nil
	}

	minHits := len(qGrams) / 4
	if minHits < 1 {
		minHits = 1
	}

	type scored struct {
		pos  int
		hits int
	}
	buf := make([]scored, 0, len(hits))
	for pos, n := range hits {
		if n < minHits {
			continue
		}
		if ix.records[pos].ID == q.ID {
			continue
		}
		buf = append(buf, scored{pos: pos, hits: n})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.Slice(buf, func(i, j int) bool {
		if buf[i].hits != buf[j].hits {
			return buf[i].hits > buf[j].hits
		}
		return ix.records[buf[i].pos].ID < ix.records[buf[j].pos].ID
	})

	if limit > len(buf) {
		limit = len(buf)
	}
	out := make([]Record, limit)
	for i := 0; i < limit; i++ {
		out[i] = ix.records[buf[i].pos]
	}
	return out
}
