/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/searchstore/errors"
)

// Match evaluates Text and Filters against a JSON source in process.
// It backs the stores that have no query engine of their own (mock, ddb).
func (q *Query) Match(source json.RawMessage) (bool, error) {
	if q != nil && len(q.Body) > 0 {
		return false, errors.NewValidationError("Body", "raw query bodies require a search engine backend")
	}

	var fields map[string]any
	if err := json.Unmarshal(source, &fields); err != nil {
		return false, fmt.Errorf("failed to decode document source: %w", err)
	}
	if q == nil {
		return true, nil
	}

	for name, want := range q.Filters {
		got, ok := fields[name]
		if !ok || scalarString(got) != want {
			return false, nil
		}
	}

	terms := strings.Fields(strings.ToLower(q.Text))
	if len(terms) == 0 {
		return true, nil
	}

	var values []string
	if len(q.Fields) == 0 {
		for _, v := range fields {
			values = append(values, strings.ToLower(scalarString(v)))
		}
	} else {
		for _, name := range q.Fields {
			if v, ok := fields[name]; ok {
				values = append(values, strings.ToLower(scalarString(v)))
			}
		}
	}

	// every term has to appear in at least one searched value
	for _, term := range terms {
		found := false
		for _, v := range values {
			if strings.Contains(v, term) {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// Window cuts the [From, From+Size) slice out of an already ordered result set.
func (q *Query) Window(docs []Document) []Document {
	from := q.Offset()
	if from >= len(docs) {
		return []Document{}
	}
	to := from + q.Limit()
	if to > len(docs) {
		to = len(docs)
	}
	return docs[from:to]
}

// SortDocuments orders docs in place by the given sort keys. Documents missing a
// sort field come last; numbers compare numerically, everything else as strings.
func SortDocuments(docs []Document, sorts []Sort) error {
	if len(sorts) == 0 {
		return nil
	}

	decoded := make(map[string]map[string]any, len(docs))
	for _, d := range docs {
		var fields map[string]any
		if err := json.Unmarshal(d.Source, &fields); err != nil {
			return fmt.Errorf("failed to decode document %q: %w", d.ID, err)
		}
		decoded[d.ID] = fields
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := decoded[docs[i].ID], decoded[docs[j].ID]
		for _, s := range sorts {
			av, bv := a[s.Field], b[s.Field]
			if (av == nil) != (bv == nil) {
				return bv == nil
			}
			c := compareField(av, bv)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

func compareField(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(scalarString(a), scalarString(b))
}

// scalarString renders a decoded JSON value the way a term filter sees it.
func scalarString(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	default:
		b, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprintf("%v", tv)
		}
		return string(b)
	}
}
