package kicad

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGerbersArgs(t *testing.T) {
	fab := filepath.Join("build", "fab")
	got := GerbersArgs("src/board.kicad_pcb", fab, []string{"F.Cu", "B.Cu", "Edge.Cuts"})
	want := []string{
		"pcb", "export", "gerbers",
		"--output", fab + string(filepath.Separator),
		"--layers", "F.Cu,B.Cu,Edge.Cuts",
		"src/board.kicad_pcb",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GerbersArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestDrillArgsKeepsExistingSeparator(t *testing.T) {
	fab := "build" + string(filepath.Separator) + "fab" + string(filepath.Separator)
	got := DrillArgs("b.kicad_pcb", fab)
	want := []string{"pcb", "export", "drill", "--output", fab, "b.kicad_pcb", "--excellon-separate-th"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DrillArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionArgs(t *testing.T) {
	for _, tc := range []struct {
		side Side
		file string
	}{
		{SideFront, "assy/p-top.pos"},
		{SideBack, "assy/p-bottom.pos"},
	} {
		got := PositionArgs("p.kicad_pcb", tc.file, tc.side)
		want := []string{
			"pcb", "export", "pos",
			"--output", tc.file,
			"--units", "mm",
			"--use-drill-file-origin",
			"--exclude-dnp",
			"p.kicad_pcb",
			"--side", string(tc.side),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("PositionArgs(%s) mismatch (-want +got):\n%s", tc.side, diff)
		}
	}
}

func TestBOMArgs(t *testing.T) {
	got := BOMArgs("p.kicad_sch", "bom/p.csv", BOMOptions{
		Fields:  []string{"Reference", "Value", "${QUANTITY}"},
		Labels:  []string{"Refs", "", "Qty"},
		GroupBy: "Value,Footprint",
	})
	want := []string{
		"sch", "export", "bom",
		"--output", "bom/p.csv",
		"--fields", "Reference,Value,${QUANTITY}",
		"--labels", "Refs,,Qty",
		"--group-by", "Value,Footprint",
		"--ref-range-delimiter", "",
		"p.kicad_sch",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BOMArgs mismatch (-want +got):\n%s", diff)
	}
}
