package country

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

type resolvedEntry struct {
	country  Country
	aliases  map[string]struct{}
	currency string
}

// Resolver maps free-form country input to canonical names. It is immutable after construction.
type Resolver struct {
	entries []resolvedEntry
}

// NewResolver builds a Resolver and verifies the table: every country has
// aliases and a three-letter currency, and no normalized alias belongs to
// more than one country.
func NewResolver(entries []Entry) (*Resolver, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty country table", apperrors.ErrConfiguration)
	}

	owner := make(map[string]Country)
	seen := make(map[Country]struct{}, len(entries))
	resolved := make([]resolvedEntry, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(string(e.Country)) == "" {
			return nil, fmt.Errorf("%w: empty canonical country name", apperrors.ErrConfiguration)
		}
		if _, dup := seen[e.Country]; dup {
			return nil, fmt.Errorf("%w: duplicate country %q", apperrors.ErrConfiguration, e.Country)
		}
		seen[e.Country] = struct{}{}

		if len(e.Aliases) == 0 {
			return nil, fmt.Errorf("%w: country %q has no aliases", apperrors.ErrConfiguration, e.Country)
		}
		code := strings.ToUpper(strings.TrimSpace(e.Currency))
		if len(code) != 3 {
			return nil, fmt.Errorf("%w: country %q has invalid currency %q", apperrors.ErrConfiguration, e.Country, e.Currency)
		}

		aliases := make(map[string]struct{}, len(e.Aliases))
		for _, a := range e.Aliases {
			key := normalize(a)
			if key == "" {
				return nil, fmt.Errorf("%w: country %q has an empty alias", apperrors.ErrConfiguration, e.Country)
			}
			if prev, taken := owner[key]; taken && prev != e.Country {
				return nil, fmt.Errorf("%w: alias %q is shared by %q and %q", apperrors.ErrConfiguration, a, prev, e.Country)
			}
			owner[key] = e.Country
			aliases[key] = struct{}{}
		}

		resolved = append(resolved, resolvedEntry{country: e.Country, aliases: aliases, currency: code})
	}

	return &Resolver{entries: resolved}, nil
}

// Default returns a Resolver over DefaultEntries.
func Default() *Resolver {
	r, err := NewResolver(DefaultEntries())
	if err != nil {
		panic("invalid built-in country table: " + err.Error())
	}
	return r
}

// Resolve returns the canonical country for input.
func (r *Resolver) Resolve(input string) (Country, error) {
	key := normalize(input)
	for _, e := range r.entries {
		if _, ok := e.aliases[key]; ok {
			return e.country, nil
		}
	}
	return "", &apperrors.UnrecognizedCountryError{
		Input:     strings.TrimSpace(input),
		Supported: lo.Map(r.entries, func(e resolvedEntry, _ int) string { return string(e.country) }),
	}
}

// Currency returns the currency code of a canonical country.
func (r *Resolver) Currency(c Country) (string, error) {
	e, ok := lo.Find(r.entries, func(e resolvedEntry) bool { return e.country == c })
	if !ok {
		return "", fmt.Errorf("%w: no currency for %q", apperrors.ErrUnrecognizedCountry, c)
	}
	return e.currency, nil
}

// Supported lists canonical countries in table order.
func (r *Resolver) Supported() []Country {
	return lo.Map(r.entries, func(e resolvedEntry, _ int) Country { return e.country })
}

// normalize trims, composes and case-folds s. A Caser is stateful, so one is made per call.
func normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
