package domain

import "strings"

// SelectorAll is the rollup selector. It is always the first dropdown entry.
const SelectorAll = "ALL"

// SelectorKey picks which column identifies a machine in both the dropdown
// and the filter predicate. Historical variants of this dashboard disagreed
// on the column; routing every lookup through SelectorValue keeps the two
// code paths from ever mixing keys.
type SelectorKey string

const (
	SelectorByMachineID    SelectorKey = "machine_id"
	SelectorByLocationType SelectorKey = "location_type"
)

// ParseSelectorKey maps a config value to a SelectorKey.
func ParseSelectorKey(s string) (SelectorKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SelectorByMachineID), "":
		return SelectorByMachineID, true
	case string(SelectorByLocationType):
		return SelectorByLocationType, true
	}
	return SelectorByMachineID, false
}

// SelectorValue returns the record's value for the configured selector key.
func (r TransactionRecord) SelectorValue(key SelectorKey) string {
	if key == SelectorByLocationType {
		return r.LocationType
	}
	return r.MachineID
}

// SelectorValue returns the order line's value for the configured selector key.
func (o OrderLine) SelectorValue(key SelectorKey) string {
	if key == SelectorByLocationType {
		return o.LocationType
	}
	return o.MachineID
}
