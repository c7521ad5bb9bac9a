package geo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCities_ReadsRowsInFileOrder(t *testing.T) {
	path := writeFile(t, "cities.csv",
		"country,city,city_ascii,lat,lng,population\n"+
			"United States,Chicago,Chicago,41.8375,-87.6866,8604203\n"+
			"Canada,Toronto,Toronto,43.7417,-79.3733,5429524\n")

	cities, err := LoadCities(path)
	if err != nil {
		t.Fatalf("LoadCities: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(cities))
	}
	if cities[0].Name != "Chicago" || cities[0].Lat != 41.8375 {
		t.Fatalf("unexpected first row: %+v", cities[0])
	}
	if cities[1].Population != 5429524 {
		t.Fatalf("expected Toronto population 5429524, got %d", cities[1].Population)
	}
}

func TestLoadCities_HeaderOrderDoesNotMatter(t *testing.T) {
	path := writeFile(t, "cities.csv",
		"lat,lng,city,city_ascii,population,country\n"+
			"41.8375,-87.6866,Chicago,Chicago,8604203,United States\n")

	cities, err := LoadCities(path)
	if err != nil {
		t.Fatalf("LoadCities: %v", err)
	}
	if cities[0].Country != "United States" || cities[0].Lng != -87.6866 {
		t.Fatalf("columns resolved by position, not name: %+v", cities[0])
	}
}

func TestLoadCities_MissingColumnNamesTheColumn(t *testing.T) {
	path := writeFile(t, "cities.csv",
		"country,city,city_ascii,lat,population\n"+
			"United States,Chicago,Chicago,41.8375,8604203\n")

	_, err := LoadCities(path)
	if err == nil {
		t.Fatalf("expected error for missing lng column")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Column != "lng" {
		t.Fatalf("expected missing column lng, got %q", loadErr.Column)
	}
}

func TestLoadCities_MissingFileFails(t *testing.T) {
	_, err := LoadCities(filepath.Join(t.TempDir(), "absent.csv"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for missing file, got %v", err)
	}
}

func TestLoadCities_RejectsOutOfRangeCoordinates(t *testing.T) {
	path := writeFile(t, "cities.csv",
		"country,city,city_ascii,lat,lng,population\n"+
			"Nowhere,Off Grid,Off Grid,95.0,10.0,1\n")

	_, err := LoadCities(path)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected out of range latitude error, got %v", err)
	}
}

func TestLoadCities_AcceptsFloatPopulation(t *testing.T) {
	path := writeFile(t, "cities.csv",
		"country,city,city_ascii,lat,lng,population\n"+
			"Japan,Tokyo,Tokyo,35.6897,139.6922,37732000.0\n")

	cities, err := LoadCities(path)
	if err != nil {
		t.Fatalf("LoadCities: %v", err)
	}
	if cities[0].Population != 37732000 {
		t.Fatalf("expected population 37732000, got %d", cities[0].Population)
	}
}

func TestLoadAliases_FoldsKeys(t *testing.T) {
	path := writeFile(t, "aliases.yaml",
		"aliases:\n  Tel Aviv: Tel Aviv-Yafo\n  Tijuana TPF: Tijuana\n")

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if aliases["tel aviv"] != "Tel Aviv-Yafo" {
		t.Fatalf("expected folded key lookup, got %+v", aliases)
	}
	if aliases["tijuana tpf"] != "Tijuana" {
		t.Fatalf("expected Tijuana TPF alias, got %+v", aliases)
	}
}

func TestLoadAliases_EmptyFileFails(t *testing.T) {
	path := writeFile(t, "aliases.yaml", "aliases: {}\n")

	_, err := LoadAliases(path)
	if err == nil {
		t.Fatalf("expected error for empty alias table")
	}
}
