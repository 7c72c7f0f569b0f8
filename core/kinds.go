package core

import "strings"

// EquipmentKind describes a placeable symbol family.
type EquipmentKind struct {
	Name           string // Kind identifier used in the scene ("pump")
	DefaultSubtype string // Display name used for tags when no subtype is given
}

// EquipmentKinds lists the symbol families the editor knows how to place.
var EquipmentKinds = []EquipmentKind{
	{Name: "tank", DefaultSubtype: "Tank"},
	{Name: "pump", DefaultSubtype: "Pump"},
	{Name: "valve", DefaultSubtype: "Valve"},
	{Name: "vessel", DefaultSubtype: "Vessel"},
	{Name: "exchanger", DefaultSubtype: "Exchanger"},
	{Name: "instrument", DefaultSubtype: "Instrument"},
	{Name: "flange", DefaultSubtype: "Flange"},
	{Name: "reducer", DefaultSubtype: "Reducer"},
}

// LookupKind returns the known kind with the given name (case-insensitive).
func LookupKind(name string) (EquipmentKind, bool) {
	for _, k := range EquipmentKinds {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return EquipmentKind{}, false
}

// DisplayName returns the name used in tags and BOM descriptions for equipment.
func (e Equipment) DisplayName() string {
	if e.Subtype != "" {
		return e.Subtype
	}
	if k, ok := LookupKind(e.Kind); ok {
		return k.DefaultSubtype
	}
	return e.Kind
}
