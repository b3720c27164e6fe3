package models

// ParameterRecord is one row of the combined stellar parameter catalog.
// ObsID is the unique observation identifier in the archive; the physical
// parameters are carried through sampling untouched.
type ParameterRecord struct {
	ObsID    string  `json:"obsid"`
	Subclass string  `json:"subclass"`
	Teff     float64 `json:"teff"`
	Logg     float64 `json:"logg"`
	FeH      float64 `json:"feh"`
	SNRG     float64 `json:"snrg"`

	// Extra holds any additional catalog columns, keyed by header name,
	// so persisted samples keep the full source schema.
	Extra map[string]string `json:"extra,omitempty"`
}

func (r *ParameterRecord) IsValid() bool {
	return r.ObsID != "" && r.Subclass != ""
}
