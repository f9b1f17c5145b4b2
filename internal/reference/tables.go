package reference

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pricecast/internal/models"
)

// CombinedJKName is the single table entry that covers two map regions
const CombinedJKName = "Jammu & Kashmir and Ladakh"

var combinedJKRegions = []string{"Jammu & Kashmir", "Ladakh"}

// DefaultStates lists the states the price service knows, in display order
var DefaultStates = []models.StateEntry{
	{DisplayName: "Arunachal Pradesh", Code: "AR"},
	{DisplayName: "Andaman & Nicobar", Code: "AN"},
	{DisplayName: "Andhra Pradesh", Code: "AP"},
	{DisplayName: "Assam", Code: "AS"},
	{DisplayName: "Bihar", Code: "BI"},
	{DisplayName: "Chhattisgarh", Code: "CG"},
	{DisplayName: "Delhi", Code: "DL"},
	{DisplayName: "Chandigarh", Code: "CH"},
	{DisplayName: "Goa", Code: "GO"},
	{DisplayName: "Gujarat", Code: "GJ"},
	{DisplayName: "Haryana", Code: "HR"},
	{DisplayName: "Himachal Pradesh", Code: "HP"},
	{DisplayName: "Jharkhand", Code: "JR"},
	{DisplayName: CombinedJKName, Code: "JK"},
	{DisplayName: "Karnataka", Code: "KK"},
	{DisplayName: "Kerala", Code: "KL"},
	{DisplayName: "Madhya Pradesh", Code: "MP"},
	{DisplayName: "Maharashtra", Code: "MH"},
	{DisplayName: "Manipur", Code: "MN"},
	{DisplayName: "Meghalaya", Code: "MG"},
	{DisplayName: "Mizoram", Code: "MZ"},
	{DisplayName: "Nagaland", Code: "NG"},
	{DisplayName: "Odisha", Code: "OR"},
	{DisplayName: "Punjab", Code: "PB"},
	{DisplayName: "Rajasthan", Code: "RJ"},
	{DisplayName: "Sikkim", Code: "SK"},
	{DisplayName: "Tamil Nadu", Code: "TN"},
	{DisplayName: "Telangana", Code: "TL"},
	{DisplayName: "Tripura", Code: "TR"},
	{DisplayName: "Uttarakhand", Code: "UC"},
	{DisplayName: "Uttar Pradesh", Code: "UP"},
	{DisplayName: "West Bengal", Code: "WB"},
}

// DefaultCommodityTokens are sent verbatim; their mixed casing is what the
// service expects
var DefaultCommodityTokens = []string{
	"Gram dal",
	"Groundnut oil",
	"gur",
	"masur dal",
	"moong dal",
	"mustard oil",
	"onion",
	"Potato",
	"Rice",
	"Sugar",
	"tea",
	"tomato",
	"tur dal",
	"urad dal",
	"vanaspati",
	"wheat",
}

// Tables holds the state and commodity lookups. A Tables value is never
// mutated after construction and is safe to share between goroutines.
type Tables struct {
	states      []models.StateEntry
	stateByName map[string]models.StateEntry
	stateByCode map[string]models.StateEntry

	commodities    []models.CommodityEntry
	tokenByDisplay map[string]string
	displayByToken map[string]string
}

// New builds lookup tables. Duplicate state names or codes and commodity
// tokens that capitalize to the same display name are rejected.
func New(states []models.StateEntry, tokens []string) (*Tables, error) {
	t := &Tables{
		states:         make([]models.StateEntry, 0, len(states)),
		stateByName:    make(map[string]models.StateEntry, len(states)),
		stateByCode:    make(map[string]models.StateEntry, len(states)),
		commodities:    make([]models.CommodityEntry, 0, len(tokens)),
		tokenByDisplay: make(map[string]string, len(tokens)),
		displayByToken: make(map[string]string, len(tokens)),
	}

	for _, s := range states {
		if _, dup := t.stateByName[s.DisplayName]; dup {
			return nil, fmt.Errorf("duplicate state name %q", s.DisplayName)
		}
		if _, dup := t.stateByCode[s.Code]; dup {
			return nil, fmt.Errorf("duplicate state code %q", s.Code)
		}
		t.states = append(t.states, s)
		t.stateByName[s.DisplayName] = s
		t.stateByCode[s.Code] = s
	}

	for _, token := range tokens {
		display := Capitalize(token)
		if prev, dup := t.tokenByDisplay[display]; dup {
			return nil, fmt.Errorf("commodity tokens %q and %q both display as %q", prev, token, display)
		}
		t.commodities = append(t.commodities, models.CommodityEntry{DisplayName: display, Token: token})
		t.tokenByDisplay[display] = token
		t.displayByToken[token] = display
	}

	return t, nil
}

// Default returns the tables for the 32 states and 16 commodities the price
// service supports
func Default() *Tables {
	t, err := New(DefaultStates, DefaultCommodityTokens)
	if err != nil {
		panic(fmt.Sprintf("reference: invalid default tables: %v", err))
	}
	return t
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + cases.Lower(language.Und).String(s[size:])
}

// StateCode returns the service code for a state display name
func (t *Tables) StateCode(name string) (string, bool) {
	s, ok := t.stateByName[name]
	return s.Code, ok
}

// MustStateCode is StateCode for names that are known to be in the table
func (t *Tables) MustStateCode(name string) string {
	code, ok := t.StateCode(name)
	if !ok {
		panic(fmt.Sprintf("reference: unknown state %q", name))
	}
	return code
}

// StateName returns the display name for a state code. The combined
// Jammu & Kashmir and Ladakh entry is returned as-is, not split.
func (t *Tables) StateName(code string) (string, bool) {
	s, ok := t.stateByCode[code]
	return s.DisplayName, ok
}

// States returns the state entries in display order
func (t *Tables) States() []models.StateEntry {
	out := make([]models.StateEntry, len(t.states))
	copy(out, t.states)
	return out
}

// StateNames returns the state display names in display order
func (t *Tables) StateNames() []string {
	names := make([]string, len(t.states))
	for i, s := range t.states {
		names[i] = s.DisplayName
	}
	return names
}

// CommodityToken returns the request token for a commodity display name
func (t *Tables) CommodityToken(display string) (string, bool) {
	token, ok := t.tokenByDisplay[display]
	return token, ok
}

// MustCommodityToken is CommodityToken for names known to be in the table
func (t *Tables) MustCommodityToken(display string) string {
	token, ok := t.CommodityToken(display)
	if !ok {
		panic(fmt.Sprintf("reference: unknown commodity %q", display))
	}
	return token
}

// CommodityDisplay returns the display name for a request token
func (t *Tables) CommodityDisplay(token string) (string, bool) {
	display, ok := t.displayByToken[token]
	return display, ok
}

// Commodities returns the commodity entries in display order
func (t *Tables) Commodities() []models.CommodityEntry {
	out := make([]models.CommodityEntry, len(t.commodities))
	copy(out, t.commodities)
	return out
}

// CommodityNames returns the commodity display names in display order
func (t *Tables) CommodityNames() []string {
	names := make([]string, len(t.commodities))
	for i, c := range t.commodities {
		names[i] = c.DisplayName
	}
	return names
}

// MapRegions returns the boundary-file region names a state is drawn as
func MapRegions(displayName string) []string {
	if displayName == CombinedJKName {
		out := make([]string, len(combinedJKRegions))
		copy(out, combinedJKRegions)
		return out
	}
	return []string{displayName}
}
