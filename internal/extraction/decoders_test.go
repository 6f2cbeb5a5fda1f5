package extraction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kacper-wojtaszczyk/jackfruit/extraction-go/internal/grib"
)

func TestGRIBDecoder_InvalidStream(t *testing.T) {
	if _, err := (GRIBDecoder{}).Decode(strings.NewReader("not grib")); err == nil {
		t.Fatal("expected an error for a stream that is not grib2")
	}
}

func TestNCDecoder_InvalidStream(t *testing.T) {
	before, err := filepath.Glob(filepath.Join(os.TempDir(), "extraction-*.nc"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := (NCDecoder{}).Decode(strings.NewReader("not netcdf")); err == nil {
		t.Fatal("expected an error for a stream that is not netcdf")
	}

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "extraction-*.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) {
		t.Errorf("spool files leaked: %d before, %d after", len(before), len(after))
	}
}

func TestNCFieldSet_ByIDCriteria(t *testing.T) {
	fs := &ncFieldSet{}

	_, err := fs.First(grib.Criteria{Parameter: grib.ByID(0, 20, 72)})
	if err == nil || !strings.Contains(err.Error(), "parameter name") {
		t.Fatalf("expected parameter name error, got %v", err)
	}
}

func TestNCFieldSet_LevelCriteria(t *testing.T) {
	level := 850.0
	fs := &ncFieldSet{}

	_, err := fs.First(grib.Criteria{Parameter: grib.ByName("t"), LevelType: "pl", Level: &level})
	if err == nil || !strings.Contains(err.Error(), "grib objects only") {
		t.Fatalf("expected level criteria error, got %v", err)
	}
}
