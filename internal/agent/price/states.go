package price

import "strings"

// indianStates lists the state names the mandi resource uses, longest
// first so "Jammu and Kashmir" wins over a shorter partial hit.
var indianStates = []string{
	"Andaman and Nicobar Islands",
	"Dadra and Nagar Haveli",
	"Arunachal Pradesh",
	"Jammu and Kashmir",
	"Himachal Pradesh",
	"Madhya Pradesh",
	"Andhra Pradesh",
	"Uttar Pradesh",
	"Chhattisgarh",
	"West Bengal",
	"Maharashtra",
	"Uttarakhand",
	"Tamil Nadu",
	"Puducherry",
	"Chandigarh",
	"Meghalaya",
	"Jharkhand",
	"Karnataka",
	"Rajasthan",
	"Telangana",
	"Nagaland",
	"Gujarat",
	"Haryana",
	"Manipur",
	"Mizoram",
	"Tripura",
	"Gujrat",
	"Kerala",
	"Punjab",
	"Sikkim",
	"Odisha",
	"Assam",
	"Bihar",
	"Delhi",
	"Goa",
}

// ResolveState extracts a state name from a free-text location string by
// case-insensitive substring match. Returns "" when no state is found.
func ResolveState(location string) string {
	loc := strings.ToLower(location)
	for _, state := range indianStates {
		if strings.Contains(loc, strings.ToLower(state)) {
			if state == "Gujrat" {
				return "Gujarat"
			}
			return state
		}
	}
	return ""
}
