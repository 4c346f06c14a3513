package dataset

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestDistricts_Load(t *testing.T) {
	input := strings.Join([]string{
		"composite,id,name,city,extra",
		"261011,1,Rathaus,261,100",
		"261021,2,Wollishofen,261,101",
		"261031,3,Alt-Wiedikon,261,102",
	}, "\n")

	idx, err := newTestLoader().Districts(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load districts: %v", err)
	}

	if idx.Len() != 3 {
		t.Fatalf("expected 3 districts, got %d", idx.Len())
	}
	d, ok := idx.ByID(2)
	if !ok || d.Name != "Wollishofen" {
		t.Fatalf("expected district 2 Wollishofen, got %+v ok=%v", d, ok)
	}
	d, ok = idx.ByName("Alt-Wiedikon")
	if !ok || d.ID != 3 {
		t.Fatalf("expected Alt-Wiedikon to resolve to id 3, got %+v ok=%v", d, ok)
	}

	all := idx.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected All() sorted by id, got %+v", all)
		}
	}
}

func TestDistricts_DuplicateIDLastNameWins(t *testing.T) {
	input := strings.Join([]string{
		"composite,id,name",
		"261011,7,Altstadt",
		"261012,7,Seefeld",
	}, "\n")

	idx, err := newTestLoader().Districts(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load districts: %v", err)
	}

	if idx.Len() != 1 {
		t.Fatalf("expected duplicate ids to collapse, got %d districts", idx.Len())
	}
	d, _ := idx.ByID(7)
	if d.Name != "Seefeld" {
		t.Fatalf("expected last-parsed name to win, got %q", d.Name)
	}
}

func TestDistricts_MalformedIDFailsLoad(t *testing.T) {
	input := strings.Join([]string{
		"composite,id,name",
		"261011,1,Rathaus",
		"261021,not-a-number,Wollishofen",
	}, "\n")

	_, err := newTestLoader().Districts(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected malformed district id to fail the load")
	}

	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRowError, got %T: %v", err, err)
	}
	if malformed.Dataset != DatasetDistricts || malformed.Line != 3 {
		t.Fatalf("expected districts line 3, got %s line %d", malformed.Dataset, malformed.Line)
	}
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected wrapped strconv error, got %v", err)
	}
}

func TestDistricts_HeaderOnlyIsEmpty(t *testing.T) {
	idx, err := newTestLoader().Districts(strings.NewReader("composite,id,name\n"))
	if err != nil {
		t.Fatalf("load districts: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected empty index, got %d districts", idx.Len())
	}
}

func TestDistricts_HeaderRowNeverParsed(t *testing.T) {
	// The header's id column is non-numeric; reaching it would fail the load.
	input := strings.Join([]string{
		"composite,id,name",
		"261011,4,Langstrasse",
	}, "\n")

	idx, err := newTestLoader().Districts(strings.NewReader(input))
	if err != nil {
		t.Fatalf("load districts: %v", err)
	}
	if _, ok := idx.ByName("name"); ok {
		t.Fatal("header row leaked into the index")
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 district, got %d", idx.Len())
	}
}
