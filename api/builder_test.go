package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/chain"
	"github.com/rotblauer/osmborders/common"
	"github.com/rotblauer/osmborders/formats"
	"github.com/rotblauer/osmborders/osmapi"
	"github.com/rotblauer/osmborders/params"
	"github.com/rotblauer/osmborders/testing/testdata"
	"github.com/rotblauer/osmborders/types/border"
)

// payloadFetcher decodes canned payloads instead of calling the API.
type payloadFetcher struct {
	mu       sync.Mutex
	payloads map[osm.RelationID]string
	calls    []osm.RelationID
}

func newPayloadFetcher() *payloadFetcher {
	return &payloadFetcher{payloads: map[osm.RelationID]string{
		100: testdata.Relation_Triangle_100,
		200: testdata.Relation_Triangle_200,
		300: testdata.Relation_Open_300,
		400: testdata.Relation_MissingNode_400,
		500: testdata.Relation_NoWays_500,
	}}
}

func (f *payloadFetcher) Relation(ctx context.Context, id osm.RelationID) ([]border.Segment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	payload, ok := f.payloads[id]
	if !ok {
		return nil, fmt.Errorf("%w %d: unexpected status 404 Not Found", osmapi.ErrFetch, id)
	}
	return osmapi.DecodeRelation(id, []byte(payload))
}

func newTestBuilder(t *testing.T, format formats.Format, strict bool) (*Builder, *payloadFetcher) {
	t.Helper()
	f := newPayloadFetcher()
	b, err := NewBuilder(Config{OutDir: t.TempDir(), Format: format, Strict: strict}, f)
	if err != nil {
		t.Fatal(err)
	}
	return b, f
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func assertNoOutput(t *testing.T, b *Builder) {
	t.Helper()
	entries, err := os.ReadDir(b.config.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("unexpected file left behind: %s", e.Name())
	}
}

func TestBuildRegionPoly(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn + 1)()

	b, _ := newTestBuilder(t, formats.Poly, false)
	r := Region{Country: "czechia", Name: "prague", RelationIDs: []osm.RelationID{100, 200}}
	summary, err := b.BuildRegion(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Path != filepath.Join(b.config.OutDir, "czechia_prague.poly") {
		t.Errorf("unexpected path %s", summary.Path)
	}
	if summary.Segments != 5 || summary.Rings != 2 || summary.Points != 12 {
		t.Errorf("unexpected summary %+v", summary)
	}
	got := readFile(t, summary.Path)
	want := "czechia_prague\n" +
		"1\n" +
		"\t1.400000E+1\t5.000000E+1\n" +
		"\t1.412346E+1\t5.000000E+1\n" +
		"\t1.412346E+1\t5.000000E+1\n" +
		"\t1.412346E+1\t5.012346E+1\n" +
		"\t1.412346E+1\t5.012346E+1\n" +
		"\t1.405000E+1\t5.005000E+1\n" +
		"\t1.400000E+1\t5.000000E+1\n" +
		"END\n" +
		"2\n" +
		"\t-2.050000E+1\t1.050000E+1\n" +
		"\t-2.025000E+1\t1.050000E+1\n" +
		"\t-2.025000E+1\t1.075000E+1\n" +
		"\t-2.025000E+1\t1.075000E+1\n" +
		"\t-2.050000E+1\t1.050000E+1\n" +
		"END\n" +
		"END\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if int64(len(got)) != summary.Bytes {
		t.Errorf("summary bytes %d, file has %d", summary.Bytes, len(got))
	}
}

func TestBuildRegionLogger(t *testing.T) {
	var buf bytes.Buffer
	b, _ := newTestBuilder(t, formats.Poly, false)
	b.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r := Region{Country: "czechia", Name: "prague", RelationIDs: []osm.RelationID{100}}
	if _, err := b.BuildRegion(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	logs := buf.String()
	for _, want := range []string{"region=czechia_prague", "msg=Ring", "bound=", "msg=\"Found chain\""} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
}

func TestBuildRegionGPX(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn + 1)()

	b, _ := newTestBuilder(t, formats.GPX, false)
	r := Region{Country: "czechia", Name: "prague", RelationIDs: []osm.RelationID{100}}
	summary, err := b.BuildRegion(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(summary.Path) != ".gpx" {
		t.Errorf("unexpected path %s", summary.Path)
	}
	got := readFile(t, summary.Path)
	if !strings.Contains(got, `<trkpt lat="50.123456789" lon="14.1234567">`) {
		t.Errorf("exact coordinates not in output:\n%s", got)
	}
}

func TestBuildRegionFailuresLeaveNoFile(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError + 1)()

	cases := []struct {
		name   string
		ids    []osm.RelationID
		strict bool
		want   error
	}{
		{"broken chain", []osm.RelationID{100, 300}, false, chain.ErrBrokenChain},
		{"decode", []osm.RelationID{400}, false, osmapi.ErrDecode},
		{"fetch", []osm.RelationID{100, 999}, false, osmapi.ErrFetch},
		{"no ways", []osm.RelationID{500}, false, chain.ErrEmptyInput},
		{"no relations", nil, false, chain.ErrEmptyInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, _ := newTestBuilder(t, formats.Poly, c.strict)
			_, err := b.BuildRegion(context.Background(), Region{Country: "x", Name: "y", RelationIDs: c.ids})
			if !errors.Is(err, c.want) {
				t.Errorf("got %v, want %v", err, c.want)
			}
			assertNoOutput(t, b)
		})
	}
}

func TestBuildRegionKeepsPreviousOutputOnFailure(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError + 1)()

	b, _ := newTestBuilder(t, formats.Poly, false)
	r := Region{Country: "x", Name: "y", RelationIDs: []osm.RelationID{300}}
	path := b.OutputPath(r)
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := b.BuildRegion(context.Background(), r); err == nil {
		t.Fatal("expected error")
	}
	if got := readFile(t, path); got != "previous" {
		t.Errorf("previous output clobbered: %q", got)
	}
}

func TestBuildRegionStrictFinalChain(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError + 1)()

	open := `{"elements":[
		{"type":"node","id":1,"lat":0,"lon":0},
		{"type":"node","id":2,"lat":0,"lon":1},
		{"type":"node","id":3,"lat":1,"lon":1},
		{"type":"way","id":1,"nodes":[1,2]},
		{"type":"way","id":2,"nodes":[2,3]},
		{"type":"relation","id":600,"members":[{"type":"way","ref":1},{"type":"way","ref":2}]}]}`
	r := Region{Country: "x", Name: "open", RelationIDs: []osm.RelationID{600}}

	lenient, f := newTestBuilder(t, formats.Poly, false)
	f.payloads[600] = open
	summary, err := lenient.BuildRegion(context.Background(), r)
	if err != nil {
		t.Fatalf("lenient: %v", err)
	}
	if summary.Rings != 1 {
		t.Errorf("lenient: got %d rings, want 1", summary.Rings)
	}

	strict, f := newTestBuilder(t, formats.Poly, true)
	f.payloads[600] = open
	_, err = strict.BuildRegion(context.Background(), r)
	var broken *chain.BrokenChainError
	if !errors.As(err, &broken) || !broken.Unclosed {
		t.Errorf("strict: got %v, want unclosed BrokenChainError", err)
	}
	assertNoOutput(t, strict)
}

func TestBuild(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn + 1)()

	countries, err := params.ParseBorders([]byte(`
countries:
  czechia:
    - {name: prague, areasIds: [100]}
    - {name: both, areasIds: [100, 200]}
  peru:
    - {name: lima, areasIds: [200]}
`))
	if err != nil {
		t.Fatal(err)
	}
	regions := Regions(countries.Countries)
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3", len(regions))
	}

	for _, workers := range []int{1, 3} {
		f := newPayloadFetcher()
		out := t.TempDir()
		b, err := NewBuilder(Config{OutDir: filepath.Join(out, "poly"), Format: formats.Poly, Workers: workers}, f)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Build(context.Background(), regions); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for _, name := range []string{"czechia_prague.poly", "czechia_both.poly", "peru_lima.poly"} {
			if _, err := os.Stat(filepath.Join(out, "poly", name)); err != nil {
				t.Errorf("workers=%d: %v", workers, err)
			}
		}
	}
}

func TestBuildStopsAtFirstFailure(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError + 1)()

	regions := []Region{
		{Country: "a", Name: "ok", RelationIDs: []osm.RelationID{100}},
		{Country: "a", Name: "broken", RelationIDs: []osm.RelationID{300}},
		{Country: "a", Name: "never", RelationIDs: []osm.RelationID{200}},
	}
	b, f := newTestBuilder(t, formats.Poly, false)
	err := b.Build(context.Background(), regions)
	if !errors.Is(err, chain.ErrBrokenChain) {
		t.Fatalf("got %v, want ErrBrokenChain", err)
	}
	if !strings.Contains(err.Error(), "a_broken") {
		t.Errorf("error does not name the region: %v", err)
	}
	for _, id := range f.calls {
		if id == 200 {
			t.Error("region after the failure was processed")
		}
	}
	if _, err := os.Stat(b.OutputPath(regions[0])); err != nil {
		t.Errorf("region before the failure not written: %v", err)
	}
	if _, err := os.Stat(b.OutputPath(regions[1])); !os.IsNotExist(err) {
		t.Errorf("failed region written: %v", err)
	}
}

func TestNewBuilderInvalid(t *testing.T) {
	if _, err := NewBuilder(Config{Format: formats.Poly}, newPayloadFetcher()); err == nil {
		t.Error("expected error without output dir")
	}
	if _, err := NewBuilder(Config{OutDir: t.TempDir()}, newPayloadFetcher()); err == nil {
		t.Error("expected error without format")
	}
}
