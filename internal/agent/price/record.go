package price

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is the canonical shape of one mandi price row. Every upstream
// variant is normalized into this shape at the ingestion boundary; nothing
// downstream ever sees raw API field names.
type Record struct {
	Commodity   string  `json:"commodity"`
	Variety     string  `json:"variety,omitempty"`
	Market      string  `json:"market"`
	District    string  `json:"district"`
	State       string  `json:"state"`
	MinPrice    float64 `json:"minPrice"`
	MaxPrice    float64 `json:"maxPrice"`
	ModalPrice  float64 `json:"modalPrice"`
	ArrivalDate string  `json:"arrivalDate"`
}

// rawRecord captures the field-name variants the open-data resource has
// shipped over time (mandi_name vs market, commodity_name vs commodity,
// prices as quoted strings or bare numbers).
type rawRecord struct {
	Commodity     string    `json:"commodity"`
	CommodityName string    `json:"commodity_name"`
	Variety       string    `json:"variety"`
	Market        string    `json:"market"`
	MandiName     string    `json:"mandi_name"`
	District      string    `json:"district"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	MinPrice      flexFloat `json:"min_price"`
	MaxPrice      flexFloat `json:"max_price"`
	ModalPrice    flexFloat `json:"modal_price"`
	ArrivalDate   string    `json:"arrival_date"`
	Date          string    `json:"date"`
}

func (r rawRecord) normalize() Record {
	return Record{
		Commodity:   firstNonEmpty(r.Commodity, r.CommodityName),
		Variety:     r.Variety,
		Market:      firstNonEmpty(r.Market, r.MandiName),
		District:    firstNonEmpty(r.District, r.City),
		State:       r.State,
		MinPrice:    float64(r.MinPrice),
		MaxPrice:    float64(r.MaxPrice),
		ModalPrice:  float64(r.ModalPrice),
		ArrivalDate: firstNonEmpty(r.ArrivalDate, r.Date),
	}
}

// flexFloat unmarshals prices that arrive either as JSON numbers or as
// quoted strings ("2150", "NA", "").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = strings.TrimSpace(unquoted)
	}
	if s == "" || strings.EqualFold(s, "na") {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Unparseable price data degrades to zero rather than poisoning
		// the whole response page.
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
