package simplemaps

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildArchive(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

const sampleCitiesCSV = `"city","city_ascii","lat","lng","country","iso2","iso3","admin_name","capital","population","id"
"Tokyo","Tokyo","35.6897","139.6922","Japan","JP","JPN","Tōkyō","primary","37732000","1392685764"
"Ciudad Juárez","Ciudad Juarez","31.7386","-106.4870","Mexico","MX","MEX","Chihuahua","minor","1512450","1484840083"
"Roadside Halt","Roadside Halt","","","Nowhere","XX","XXX","","","","1"
"Smallville","Smallville","12.0000","34.0000","Kenya","KE","KEN","","","","2"
`

func TestExtractCities_ParsesMemberRows(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"worldcities.csv": sampleCitiesCSV,
		"license.txt":     "simplemaps basic license",
	})

	cities, skipped, err := ExtractCities(archive)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(cities) != 3 {
		t.Fatalf("expected 3 cities, got %d", len(cities))
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", skipped)
	}

	tokyo := cities[0]
	if tokyo.Name != "Tokyo" || tokyo.Country != "Japan" || tokyo.Population != 37732000 {
		t.Fatalf("unexpected tokyo row: %+v", tokyo)
	}
	if tokyo.Lat != 35.6897 || tokyo.Lng != 139.6922 {
		t.Fatalf("unexpected tokyo coordinates: %+v", tokyo)
	}
}

func TestExtractCities_KeepsASCIIVariant(t *testing.T) {
	archive := buildArchive(t, map[string]string{"worldcities.csv": sampleCitiesCSV})

	cities, _, err := ExtractCities(archive)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	juarez := cities[1]
	if juarez.Name != "Ciudad Juárez" || juarez.ASCIIName != "Ciudad Juarez" {
		t.Fatalf("ascii variant lost: %+v", juarez)
	}
}

func TestExtractCities_BlankPopulationRanksLast(t *testing.T) {
	archive := buildArchive(t, map[string]string{"worldcities.csv": sampleCitiesCSV})

	cities, _, err := ExtractCities(archive)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	smallville := cities[2]
	if smallville.Name != "Smallville" || smallville.Population != 0 {
		t.Fatalf("blank population should parse as zero: %+v", smallville)
	}
}

func TestExtractCities_MissingMemberFails(t *testing.T) {
	archive := buildArchive(t, map[string]string{"cities.csv": sampleCitiesCSV})

	if _, _, err := ExtractCities(archive); err == nil {
		t.Fatal("expected an archive without worldcities.csv to fail")
	}
}

func TestExtractCities_MissingColumnFails(t *testing.T) {
	bad := "\"city\",\"lat\",\"lng\",\"country\"\n\"Tokyo\",\"35.7\",\"139.7\",\"Japan\"\n"
	archive := buildArchive(t, map[string]string{"worldcities.csv": bad})

	if _, _, err := ExtractCities(archive); err == nil {
		t.Fatal("expected a table without city_ascii to fail")
	}
}

func TestExtractCities_NotAnArchiveFails(t *testing.T) {
	if _, _, err := ExtractCities([]byte("plain text, not a zip")); err == nil {
		t.Fatal("expected a non-archive payload to fail")
	}
}
