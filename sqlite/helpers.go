package sqlite

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/vogel"
)

// speciesColumns lists the record columns in canonical field order.
var speciesColumns = strings.Join(vogel.FieldNames, ", ")

// hashSpecies computes the xxHash of all record fields and returns it as
// a hex string.
func hashSpecies(s *vogel.Species) string {
	d := xxhash.New()
	for _, f := range s.Fields() {
		_, _ = d.WriteString(f.Value)
		_, _ = d.Write([]byte{0})
	}
	b := binary.BigEndian.AppendUint64(nil, d.Sum64())
	return hex.EncodeToString(b)
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if
// values are > 0. SQLite requires a LIMIT before OFFSET, so an offset alone
// is paired with LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
