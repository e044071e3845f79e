package country

// Country is a canonical country name.
type Country string

const (
	China         Country = "China"
	CzechRepublic Country = "Czech Republic"
	Denmark       Country = "Denmark"
	Mexico        Country = "Mexico"
	NewZealand    Country = "New Zealand"
	Norway        Country = "Norway"
	Poland        Country = "Poland"
	Russia        Country = "Russia"
	Sweden        Country = "Sweden"
	Switzerland   Country = "Switzerland"
	Turkiye       Country = "Türkiye"
	UnitedKingdom Country = "United Kingdom"
)

// Entry describes one canonical country: the spellings accepted for it and its currency.
type Entry struct {
	Country  Country
	Aliases  []string
	Currency string
}

// DefaultEntries is the built-in table. Order is resolution order.
func DefaultEntries() []Entry {
	return []Entry{
		{China, []string{"China"}, "CNY"},
		{CzechRepublic, []string{"Czechia", "Czech Republic", "Czech"}, "CZK"},
		{Denmark, []string{"Denmark"}, "DKK"},
		{Mexico, []string{"Mexico"}, "MXN"},
		{NewZealand, []string{"NZ", "New Zealand"}, "NZD"},
		{Norway, []string{"Norway"}, "NOK"},
		{Poland, []string{"Poland"}, "PLN"},
		{Russia, []string{"Russia", "Russian Federation"}, "RUB"},
		{Sweden, []string{"Sweden"}, "SEK"},
		{Switzerland, []string{"Switzerland"}, "CHF"},
		{Turkiye, []string{"Turkey", "Turkiye", "Türkiye"}, "TRY"},
		{UnitedKingdom, []string{"UK", "United Kingdom", "Britain", "England"}, "GBP"},
	}
}
