package geo

// Index provides lookups over the city reference. It is built once and
// never mutated; the zero value is not usable, construct with NewIndex.
//
// Duplicate keys resolve first-row-wins. The reference is population
// descending, so a bare city name always resolves to its most populous
// bearer (Paris is Paris, France, not Paris, Texas).
type Index struct {
	byKey   map[string]City
	byCity  map[string]City
	aliases map[string]string
	size    int
}

// NewIndex builds the lookup index. The aliases map keys must already be
// folded (LoadAliases does this); values are reference city names.
func NewIndex(cities []City, aliases map[string]string) *Index {
	idx := &Index{
		byKey:   make(map[string]City, len(cities)*2),
		byCity:  make(map[string]City, len(cities)*2),
		aliases: aliases,
		size:    len(cities),
	}

	for _, city := range cities {
		idx.add(city.Country, city.Name, city)
		if city.ASCIIName != "" && foldKey(city.ASCIIName) != foldKey(city.Name) {
			idx.add(city.Country, city.ASCIIName, city)
		}
	}
	return idx
}

func (idx *Index) add(country, name string, city City) {
	key := foldKey(country) + "|" + foldKey(name)
	if _, exists := idx.byKey[key]; !exists {
		idx.byKey[key] = city
	}
	cityKey := foldKey(name)
	if _, exists := idx.byCity[cityKey]; !exists {
		idx.byCity[cityKey] = city
	}
}

// resolveName applies the alias table to a published post name.
func (idx *Index) resolveName(name string) string {
	if alias, ok := idx.aliases[foldKey(name)]; ok {
		return alias
	}
	return name
}

// Lookup finds the reference entry for a (country, city) pair. Matching is
// case-insensitive and alias-aware on the city name.
func (idx *Index) Lookup(country, city string) (City, bool) {
	name := idx.resolveName(city)
	found, ok := idx.byKey[foldKey(country)+"|"+foldKey(name)]
	return found, ok
}

// LookupCity finds the reference entry for a bare post name, used when the
// source table publishes no country. Duplicates resolve to the most
// populous city.
func (idx *Index) LookupCity(city string) (City, bool) {
	name := idx.resolveName(city)
	found, ok := idx.byCity[foldKey(name)]
	return found, ok
}

// Len reports the number of reference rows behind the index.
func (idx *Index) Len() int {
	return idx.size
}
