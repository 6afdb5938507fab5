package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/catplot/internal/model"
)

func sampleTable() *model.Table {
	b := model.NewBuilder()
	b.AddRow([]model.Field{
		{Name: model.ColCatalystType, Value: "Pt/Al2O3"},
		{Name: model.ColTOF, Value: 1.25},
		{Name: model.ColStability, Value: 120.0},
	})
	b.AddRow([]model.Field{
		{Name: model.ColCatalystType, Value: "Cu/ZnO"},
		{Name: model.ColTOF, Value: nil},
		{Name: model.ColStability, Value: 80.0},
	})
	return b.Build()
}

func TestInsertAndLoadTable(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	if _, err := st.InsertTable(ctx, "catalysis", sampleTable(), time.Unix(0, 0)); err != nil {
		t.Fatalf("insert table: %v", err)
	}

	table, err := st.LoadTable(ctx, "catalysis")
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	names := table.Names()
	if len(names) != 3 || names[0] != model.ColCatalystType || names[2] != model.ColStability {
		t.Fatalf("unexpected columns: %v", names)
	}
	tof, err := table.Numbers(model.ColTOF)
	if err != nil {
		t.Fatalf("numbers: %v", err)
	}
	if tof[0] != 1.25 || !math.IsNaN(tof[1]) {
		t.Fatalf("unexpected TOF values: %v", tof)
	}
	types, err := table.Labels(model.ColCatalystType)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if types[1] != "Cu/ZnO" {
		t.Fatalf("unexpected catalyst types: %v", types)
	}
}

func TestLoadTablePicksLatest(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()

	if _, err := st.LoadTable(ctx, ""); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}

	first := model.NewBuilder()
	first.AddRow([]model.Field{{Name: "a", Value: 1.0}})
	if _, err := st.InsertTable(ctx, "one", first.Build(), time.Unix(0, 0)); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if _, err := st.InsertTable(ctx, "two", sampleTable(), time.Unix(60, 0)); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	latest, err := st.LoadTable(ctx, "")
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest.Len() != 2 {
		t.Fatalf("expected latest dataset with 2 rows, got %d", latest.Len())
	}
	named, err := st.LoadTable(ctx, "one")
	if err != nil {
		t.Fatalf("load named: %v", err)
	}
	if named.Len() != 1 || !named.Has("a") {
		t.Fatalf("unexpected named dataset: %v", named.Names())
	}

	infos, err := st.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("list datasets: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "one" || infos[1].Rows != 2 {
		t.Fatalf("unexpected datasets: %+v", infos)
	}
	if _, err := st.LoadTable(ctx, "missing"); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset for unknown name, got %v", err)
	}
}
