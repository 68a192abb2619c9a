package domain

// Represents a charterer's requirement for vessel capacity, route and schedule.
// Like VesselOffer, every attribute is optional.
type CargoOrder struct {
	ID             string   `json:"id,omitempty"`
	Charterer      string   `json:"charterer,omitempty"`
	CargoType      string   `json:"cargo_type,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
	DWTMin         *float64 `json:"dwt_min,omitempty"`
	DWTMax         *float64 `json:"dwt_max,omitempty"`
	LaycanStart    string   `json:"laycan_start,omitempty"`
	LaycanEnd      string   `json:"laycan_end,omitempty"`
	LoadPort       string   `json:"load_port,omitempty"`
	DischargePort  string   `json:"discharge_port,omitempty"`
	BudgetRate     *float64 `json:"budget_rate,omitempty"`
	MaxAge         *float64 `json:"max_age,omitempty"`
	RequiresGear   *bool    `json:"requires_gear,omitempty"`
	IceClass       string   `json:"ice_class,omitempty"`
	PreferredFlags []string `json:"preferred_flags,omitempty"`
}
