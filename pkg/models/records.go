package models

// ProgramRecord is one row of the programs table keyed by column name.
type ProgramRecord map[string]any

// FacilityRecord is the fixed projection of the facilities table. Absent
// values are nil and render as JSON null.
type FacilityRecord struct {
	Name      *string  `json:"FCLTY_NM"`
	Latitude  *float64 `json:"FCLTY_LA"`
	Longitude *float64 `json:"FCLTY_LO"`
	Type      *string  `json:"INDUTY_NM"`
	Address   *string  `json:"RDNMADR_NM"`
}
