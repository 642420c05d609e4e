package question

import (
	"github.com/quizforge/server/internal/tabular"
)

// ApplyHeadersMap rewrites row keys through a user-supplied mapping table
// (source header -> canonical field name). Lookup is case-insensitive on
// both sides; unmapped columns pass through under their original name.
// When two source columns map to the same canonical name, the
// first-encountered column wins and later values are dropped.
//
// The returned header list is the de-duplicated set of resulting names,
// order-preserving on first occurrence. The function is pure: it never
// mutates its inputs and depends on no shared state.
func ApplyHeadersMap(rows []tabular.Row, headersMap map[string]string) ([]string, []tabular.Row) {
	lookup := make(map[string]string, len(headersMap))
	for src, canonical := range headersMap {
		lookup[tabular.CleanHeader(src)] = canonical
	}

	rename := func(name string) string {
		if canonical, ok := lookup[tabular.CleanHeader(name)]; ok {
			return canonical
		}
		return name
	}

	var headers []string
	headerSeen := make(map[string]bool)

	out := make([]tabular.Row, len(rows))
	for i, row := range rows {
		mapped := tabular.Row{Line: row.Line, Cells: make([]tabular.Cell, 0, len(row.Cells))}
		rowSeen := make(map[string]bool, len(row.Cells))

		for _, cell := range row.Cells {
			name := rename(cell.Name)
			key := tabular.CleanHeader(name)

			// First mapping wins; collisions are dropped deterministically.
			if rowSeen[key] {
				continue
			}
			rowSeen[key] = true

			mapped.Cells = append(mapped.Cells, tabular.Cell{Name: name, Value: cell.Value})

			if !headerSeen[key] {
				headerSeen[key] = true
				headers = append(headers, name)
			}
		}
		out[i] = mapped
	}

	return headers, out
}

// ValidateHeaders reports whether every required header is present in
// headers, compared case-insensitively. It never fails or mutates; the
// caller decides what a missing header means.
func ValidateHeaders(headers, required []string) (bool, []string) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[tabular.CleanHeader(h)] = true
	}

	var missing []string
	for _, req := range required {
		if !present[tabular.CleanHeader(req)] {
			missing = append(missing, req)
		}
	}

	return len(missing) == 0, missing
}
