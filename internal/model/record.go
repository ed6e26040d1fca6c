package model

// Required column names. Matching is exact and case-sensitive.
const (
	// ColumnTier is the grouping and sort key column.
	ColumnTier = "Tier"

	// ColumnPatronStatus is the filter column.
	ColumnPatronStatus = "Patron Status"

	// ColumnName is the column written to the report.
	ColumnName = "Name"
)

// RequiredColumns lists the required columns in resolution order.
// When several are missing, the first one in this order is reported.
var RequiredColumns = []string{ColumnTier, ColumnPatronStatus, ColumnName}

// Record is one decoded data row: one string field per header column.
type Record []string

// Field returns the field at index i.
// The second return value is false when the record has no field there,
// which happens for rows shorter than the header.
func (r Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Columns holds the resolved positions of the required columns.
type Columns struct {
	Tier   int `json:"tier"`
	Status int `json:"status"`
	Name   int `json:"name"`
}

// ResolveColumns finds the required columns in headers.
// It fails with a *MissingColumnError naming the first absent column in
// RequiredColumns order, even if the others are present.
func ResolveColumns(headers []string) (Columns, error) {
	positions := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		idx := indexOf(headers, name)
		if idx < 0 {
			return Columns{}, &MissingColumnError{Column: name}
		}
		positions[name] = idx
	}

	return Columns{
		Tier:   positions[ColumnTier],
		Status: positions[ColumnPatronStatus],
		Name:   positions[ColumnName],
	}, nil
}

// indexOf returns the first position of name in headers, or -1.
func indexOf(headers []string, name string) int {
	for i, header := range headers {
		if header == name {
			return i
		}
	}
	return -1
}
