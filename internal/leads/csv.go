package leads

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// parseCSV reads a lead CSV with a header row naming at least
// name,email,phone_number,address. Column order is free; unknown columns are
// ignored.
func parseCSV(r io.Reader) ([]Lead, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "email", "phone_number", "address"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv missing column %q", required)
		}
	}

	var res []Lead
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		field := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		res = append(res, Lead{
			Name:        field("name"),
			Email:       field("email"),
			PhoneNumber: field("phone_number"),
			Address:     field("address"),
			AssignedTo:  Unassigned,
		})
	}
	return res, nil
}
