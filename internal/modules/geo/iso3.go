package geo

import "strings"

// ucdpCountryISO3 maps UCDP numeric country ids (Gleditsch-Ward codes, as
// carried in GED events) to ISO3. Ids missing here fall back to centroid
// plus polygon resolution.
var ucdpCountryISO3 = map[int64]string{
	2:   "USA",
	41:  "HTI",
	70:  "MEX",
	90:  "GTM",
	92:  "SLV",
	93:  "NIC",
	100: "COL",
	101: "VEN",
	130: "ECU",
	135: "PER",
	140: "BRA",
	145: "BOL",
	200: "GBR",
	220: "FRA",
	230: "ESP",
	343: "MKD",
	344: "HRV",
	345: "SRB",
	346: "BIH",
	359: "MDA",
	365: "RUS",
	369: "UKR",
	371: "ARM",
	372: "GEO",
	373: "AZE",
	404: "GNB",
	420: "GMB",
	432: "MLI",
	433: "SEN",
	435: "MRT",
	436: "NER",
	437: "CIV",
	438: "GIN",
	439: "BFA",
	450: "LBR",
	451: "SLE",
	452: "GHA",
	471: "CMR",
	475: "NGA",
	482: "CAF",
	483: "TCD",
	484: "COG",
	490: "COD",
	500: "UGA",
	501: "KEN",
	510: "TZA",
	516: "BDI",
	517: "RWA",
	520: "SOM",
	522: "DJI",
	530: "ETH",
	531: "ERI",
	540: "AGO",
	541: "MOZ",
	552: "ZWE",
	560: "ZAF",
	600: "MAR",
	615: "DZA",
	616: "TUN",
	620: "LBY",
	625: "SDN",
	626: "SSD",
	630: "IRN",
	640: "TUR",
	645: "IRQ",
	651: "EGY",
	652: "SYR",
	660: "LBN",
	663: "JOR",
	666: "ISR",
	670: "SAU",
	678: "YEM",
	700: "AFG",
	702: "TJK",
	703: "KGZ",
	704: "UZB",
	705: "KAZ",
	710: "CHN",
	750: "IND",
	770: "PAK",
	771: "BGD",
	775: "MMR",
	780: "LKA",
	790: "NPL",
	800: "THA",
	811: "KHM",
	816: "VNM",
	820: "MYS",
	840: "PHL",
	850: "IDN",
	910: "PNG",
}

// countryNameISO3 maps boundary-dataset feature names (lowercased) to ISO3.
// Covers both full names and the abbreviated names used by common
// world-boundary datasets, plus known aliases.
var countryNameISO3 = map[string]string{
	"afghanistan":                      "AFG",
	"algeria":                          "DZA",
	"angola":                           "AGO",
	"armenia":                          "ARM",
	"azerbaijan":                       "AZE",
	"bangladesh":                       "BGD",
	"bosnia and herz.":                 "BIH",
	"bosnia and herzegovina":           "BIH",
	"brazil":                           "BRA",
	"burkina faso":                     "BFA",
	"burundi":                          "BDI",
	"cambodia":                         "KHM",
	"cameroon":                         "CMR",
	"central african rep.":             "CAF",
	"central african republic":         "CAF",
	"chad":                             "TCD",
	"china":                            "CHN",
	"colombia":                         "COL",
	"congo":                            "COG",
	"congo, democratic republic of the": "COD",
	"côte d'ivoire":                    "CIV",
	"dem. rep. congo":                  "COD",
	"democratic republic of the congo": "COD",
	"djibouti":                         "DJI",
	"egypt":                            "EGY",
	"el salvador":                      "SLV",
	"eritrea":                          "ERI",
	"ethiopia":                         "ETH",
	"georgia":                          "GEO",
	"ghana":                            "GHA",
	"guatemala":                        "GTM",
	"guinea":                           "GIN",
	"guinea-bissau":                    "GNB",
	"haiti":                            "HTI",
	"india":                            "IND",
	"indonesia":                        "IDN",
	"iran":                             "IRN",
	"iraq":                             "IRQ",
	"israel":                           "ISR",
	"ivory coast":                      "CIV",
	"jordan":                           "JOR",
	"kenya":                            "KEN",
	"lebanon":                          "LBN",
	"liberia":                          "LBR",
	"libya":                            "LBY",
	"mali":                             "MLI",
	"mauritania":                       "MRT",
	"mexico":                           "MEX",
	"morocco":                          "MAR",
	"mozambique":                       "MOZ",
	"myanmar":                          "MMR",
	"nepal":                            "NPL",
	"niger":                            "NER",
	"nigeria":                          "NGA",
	"pakistan":                         "PAK",
	"papua new guinea":                 "PNG",
	"peru":                             "PER",
	"philippines":                      "PHL",
	"russia":                           "RUS",
	"russian federation":               "RUS",
	"rwanda":                           "RWA",
	"s. sudan":                         "SSD",
	"saudi arabia":                     "SAU",
	"senegal":                          "SEN",
	"sierra leone":                     "SLE",
	"somalia":                          "SOM",
	"south africa":                     "ZAF",
	"south sudan":                      "SSD",
	"sri lanka":                        "LKA",
	"sudan":                            "SDN",
	"syria":                            "SYR",
	"syrian arab republic":             "SYR",
	"tajikistan":                       "TJK",
	"tanzania":                         "TZA",
	"thailand":                         "THA",
	"turkey":                           "TUR",
	"uganda":                           "UGA",
	"ukraine":                          "UKR",
	"united states of america":         "USA",
	"uzbekistan":                       "UZB",
	"venezuela":                        "VEN",
	"vietnam":                          "VNM",
	"yemen":                            "YEM",
	"zimbabwe":                         "ZWE",
}

// ISO3ForCountryID returns the ISO3 code for a UCDP numeric country id.
func ISO3ForCountryID(id int64) (string, bool) {
	iso3, ok := ucdpCountryISO3[id]
	return iso3, ok
}

// ISO3ForName returns the ISO3 code for a boundary-dataset country name.
func ISO3ForName(name string) (string, bool) {
	iso3, ok := countryNameISO3[strings.ToLower(strings.TrimSpace(name))]
	return iso3, ok
}
