package domain

// OfferStatus is the commercial state of a vessel position.
type OfferStatus string

const (
	StatusAvailable OfferStatus = "available"
	StatusPending   OfferStatus = "pending"
	StatusFixed     OfferStatus = "fixed"
	StatusWithdrawn OfferStatus = "withdrawn"
)

// Represents an available vessel position submitted by a broker or produced by
// the inbound ingestion process.
//
// Every attribute except ID is optional. Records arrive partially populated and
// the matching core reads them through accessors that substitute neutral values
// for anything missing, so nil pointers and empty strings are expected here.
// Sizes of 1000 or less are read as thousands of tonnes ("76" means 76,000 DWT).
type VesselOffer struct {
	ID            string      `json:"id"`
	VesselName    string      `json:"vessel_name,omitempty"`
	VesselType    string      `json:"vessel_type,omitempty"`
	DWT           *float64    `json:"dwt,omitempty"`
	AgeYears      *float64    `json:"age_years,omitempty"`
	Flag          string      `json:"flag,omitempty"`
	LoadPort      string      `json:"load_port,omitempty"`
	DischargePort string      `json:"discharge_port,omitempty"`
	OpenPort      string      `json:"open_port,omitempty"`
	LaycanStart   string      `json:"laycan_start,omitempty"`
	LaycanEnd     string      `json:"laycan_end,omitempty"`
	FreightRate   *float64    `json:"freight_rate,omitempty"`
	RateUnit      string      `json:"rate_unit,omitempty"`
	CargoType     string      `json:"cargo_type,omitempty"`
	Status        OfferStatus `json:"status,omitempty"`
	Geared        *bool       `json:"geared,omitempty"`
	IceClass      string      `json:"ice_class,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	MatchScore    *float64    `json:"match_score,omitempty"`
	Source        string      `json:"source,omitempty"`
}

// Clone returns a deep copy so annotations on the copy never leak back into
// the inventory the offer was read from.
func (o VesselOffer) Clone() VesselOffer {
	out := o
	out.DWT = cloneFloat(o.DWT)
	out.AgeYears = cloneFloat(o.AgeYears)
	out.FreightRate = cloneFloat(o.FreightRate)
	out.MatchScore = cloneFloat(o.MatchScore)
	if o.Geared != nil {
		g := *o.Geared
		out.Geared = &g
	}
	if o.Tags != nil {
		out.Tags = append([]string(nil), o.Tags...)
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
