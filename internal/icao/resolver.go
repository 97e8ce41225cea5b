package icao

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aeroaudit/flightcheck/internal/repository"
)

// lookupDeadline bounds a single external airport lookup. A timeout is
// treated identically to a resolution failure.
const lookupDeadline = 10 * time.Second

// Resolution is the outcome of resolving one airport code.
type Resolution struct {
	Valid   bool
	Country string
	Reason  string
}

// Resolver validates airport codes against the reference table, with a
// persisted negative cache and an external lookup fallback. A Resolver holds
// run-local state and must not be shared between concurrent runs; create one
// per run via NewResolver and Prepare.
type Resolver struct {
	lookup        AirportLookup
	disambiguator CountryDisambiguator
	invalidCodes  repository.InvalidCodeRepository
	airports      repository.AirportRepository
	aliases       repository.CountryAliasRepository

	reference  map[string]string
	canonical  map[string]struct{}
	invalid    map[string]struct{}
	aliasTable map[string][]string
	resolved   map[string]Resolution
}

// NewResolver wires a resolver. lookup is required; disambiguator may be nil,
// in which case unreconciled country names stay invalid.
func NewResolver(
	lookup AirportLookup,
	disambiguator CountryDisambiguator,
	invalidCodes repository.InvalidCodeRepository,
	airports repository.AirportRepository,
	aliases repository.CountryAliasRepository,
) *Resolver {
	return &Resolver{
		lookup:        lookup,
		disambiguator: disambiguator,
		invalidCodes:  invalidCodes,
		airports:      airports,
		aliases:       aliases,
		reference:     make(map[string]string),
		canonical:     make(map[string]struct{}),
		invalid:       make(map[string]struct{}),
		aliasTable:    make(map[string][]string),
		resolved:      make(map[string]Resolution),
	}
}

// Prepare loads the persisted reference table, invalid code set, and alias
// table. Load failures degrade to empty in-memory structures; persistence
// becomes best effort for the run.
func (r *Resolver) Prepare(ctx context.Context) {
	if r.airports != nil {
		reference, err := r.airports.LoadReference(ctx)
		if err != nil {
			log.Printf("[ICAO] failed to load reference airports, continuing with empty table: %v", err)
		} else {
			r.reference = reference
		}
	}
	for _, country := range r.reference {
		r.canonical[country] = struct{}{}
	}

	if r.invalidCodes != nil {
		invalid, err := r.invalidCodes.Load(ctx)
		if err != nil {
			log.Printf("[ICAO] failed to load invalid code cache, continuing empty: %v", err)
		} else {
			r.invalid = invalid
		}
	}

	if r.aliases != nil {
		aliases, err := r.aliases.Load(ctx)
		if err != nil {
			log.Printf("[ICAO] failed to load country aliases, continuing empty: %v", err)
		} else {
			r.aliasTable = aliases
		}
	}
}

// SeedReference merges extra reference entries into the run-local map, used
// when the upload itself carries a reference sheet.
func (r *Resolver) SeedReference(reference map[string]string) {
	for code, country := range reference {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		r.reference[code] = country
		r.canonical[country] = struct{}{}
	}
}

// Resolve validates one airport code. Repeated calls for the same code
// within a run return the memoized result and never issue a second external
// lookup.
func (r *Resolver) Resolve(ctx context.Context, code string) Resolution {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Resolution{Valid: false, Reason: "airport code is blank"}
	}

	if resolution, done := r.resolved[code]; done {
		return resolution
	}

	resolution := r.resolveUncached(ctx, code)
	r.resolved[code] = resolution
	return resolution
}

func (r *Resolver) resolveUncached(ctx context.Context, code string) Resolution {
	if _, known := r.invalid[code]; known {
		return Resolution{Valid: false, Reason: fmt.Sprintf("airport code %s is a known invalid code", code)}
	}

	if country, found := r.reference[code]; found {
		return Resolution{Valid: true, Country: country}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupDeadline)
	defer cancel()

	airport, err := r.lookup.Lookup(lookupCtx, code)
	if err != nil {
		r.markInvalid(ctx, code)
		if errors.Is(err, ErrAirportNotFound) {
			return Resolution{Valid: false, Reason: fmt.Sprintf("airport code %s not found in any airport source", code)}
		}
		return Resolution{Valid: false, Reason: fmt.Sprintf("airport code %s could not be resolved: %v", code, err)}
	}

	country, ok := r.reconcileCountry(ctx, airport.Country)
	if !ok {
		return Resolution{Valid: false, Reason: fmt.Sprintf("airport code %s resolved but country %q could not be reconciled", code, airport.Country)}
	}
	airport.Country = country

	r.reference[code] = country
	r.canonical[country] = struct{}{}
	if r.airports != nil {
		if err := r.airports.Append(ctx, airport); err != nil {
			log.Printf("[ICAO] failed to append airport %s to reference table: %v", code, err)
		}
	}

	return Resolution{Valid: true, Country: country}
}

func (r *Resolver) markInvalid(ctx context.Context, code string) {
	if _, already := r.invalid[code]; already {
		return
	}
	r.invalid[code] = struct{}{}
	if r.invalidCodes != nil {
		if err := r.invalidCodes.Add(ctx, code); err != nil {
			log.Printf("[ICAO] failed to persist invalid code %s: %v", code, err)
		}
	}
}

// reconcileCountry maps an airport-source country string onto a canonical
// state name: exact match, then known alias, then confidence scored
// disambiguation. A confident disambiguation updates the alias table.
func (r *Resolver) reconcileCountry(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if len(r.canonical) == 0 {
		// No reference table loaded; nothing to reconcile against.
		return name, true
	}

	if _, ok := r.canonical[name]; ok {
		return name, true
	}

	for official, aliases := range r.aliasTable {
		for _, alias := range aliases {
			if strings.EqualFold(alias, name) {
				return official, true
			}
		}
	}

	if r.disambiguator == nil {
		return "", false
	}

	description := fmt.Sprintf("An airport data source lists the country as %q. Map it onto the official state name if possible.", name)
	result, err := r.disambiguator.Disambiguate(ctx, description)
	if err != nil {
		log.Printf("[ICAO] country disambiguation for %q failed: %v", name, err)
		return "", false
	}
	if !result.Confident {
		return "", false
	}

	r.addAlias(ctx, result.OfficialName, name)
	if result.AlternateName != "" && !strings.EqualFold(result.AlternateName, name) {
		r.addAlias(ctx, result.OfficialName, result.AlternateName)
	}
	return result.OfficialName, true
}

func (r *Resolver) addAlias(ctx context.Context, official, alias string) {
	for _, existing := range r.aliasTable[official] {
		if strings.EqualFold(existing, alias) {
			return
		}
	}
	r.aliasTable[official] = append(r.aliasTable[official], alias)
	if r.aliases != nil {
		if err := r.aliases.Add(ctx, official, alias); err != nil {
			log.Printf("[ICAO] failed to persist alias %q -> %q: %v", alias, official, err)
		}
	}
}
