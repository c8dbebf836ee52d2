package price

import "strings"

// commodityAliases maps colloquial or regional commodity names to the
// canonical names the mandi price resource indexes on. Lookup keys are
// lowercase; values are the exact API spelling.
var commodityAliases = map[string]string{
	"paddy":        "Paddy(Dhan)(Common)",
	"dhan":         "Paddy(Dhan)(Common)",
	"rice":         "Rice",
	"wheat":        "Wheat",
	"gehu":         "Wheat",
	"gehun":        "Wheat",
	"makka":        "Maize",
	"corn":         "Maize",
	"maize":        "Maize",
	"bajra":        "Bajra(Pearl Millet/Cumbu)",
	"pearl millet": "Bajra(Pearl Millet/Cumbu)",
	"jowar":        "Jowar(Sorghum)",
	"sorghum":      "Jowar(Sorghum)",
	"arhar":        "Arhar (Tur/Red Gram)(Whole)",
	"tur":          "Arhar (Tur/Red Gram)(Whole)",
	"toor":         "Arhar (Tur/Red Gram)(Whole)",
	"red gram":     "Arhar (Tur/Red Gram)(Whole)",
	"chana":        "Bengal Gram(Gram)(Whole)",
	"gram":         "Bengal Gram(Gram)(Whole)",
	"chickpea":     "Bengal Gram(Gram)(Whole)",
	"moong":        "Green Gram (Moong)(Whole)",
	"green gram":   "Green Gram (Moong)(Whole)",
	"urad":         "Black Gram (Urd Beans)(Whole)",
	"black gram":   "Black Gram (Urd Beans)(Whole)",
	"masur":        "Lentil (Masur)(Whole)",
	"masoor":       "Lentil (Masur)(Whole)",
	"lentil":       "Lentil (Masur)(Whole)",
	"sarson":       "Mustard",
	"mustard":      "Mustard",
	"groundnut":    "Groundnut",
	"peanut":       "Groundnut",
	"moongphali":   "Groundnut",
	"soybean":      "Soyabean",
	"soyabean":     "Soyabean",
	"kapas":        "Cotton",
	"cotton":       "Cotton",
	"ganna":        "Sugarcane",
	"sugarcane":    "Sugarcane",
	"pyaz":         "Onion",
	"onion":        "Onion",
	"aloo":         "Potato",
	"potato":       "Potato",
	"tamatar":      "Tomato",
	"tomato":       "Tomato",
	"haldi":        "Turmeric",
	"turmeric":     "Turmeric",
	"jeera":        "Cummin Seed(Jeera)",
	"cumin":        "Cummin Seed(Jeera)",
	"mirchi":       "Dry Chillies",
	"chilli":       "Dry Chillies",
	"red chilli":   "Dry Chillies",
}

// CanonicalName maps a colloquial commodity name to the canonical API name.
// Lookup is case-insensitive and never fails: an unknown term is returned
// unchanged so it can still drive a broad search.
func CanonicalName(userTerm string) string {
	key := strings.ToLower(strings.TrimSpace(userTerm))
	if canonical, ok := commodityAliases[key]; ok {
		return canonical
	}
	return strings.TrimSpace(userTerm)
}
