package seed

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/ids"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/timeline"
)

func TestParseSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 0, false},
		{"10:30", 5, false},
		{"16:30", 17, false},
		{"12：00", 8, false},
		{"17:00", 0, true},
		{"07:30", 0, true},
		{"09:15", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSlot(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("expected slot %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReadBookOuts(t *testing.T) {
	t.Parallel()

	in := "日期,线路,开始时间,时长,原因\n2025-06-02,1,12:00,60,午休\n2025-06-02,3,08:00,45,保养\n"
	bos, err := ReadBookOuts(strings.NewReader(in))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(bos) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(bos))
	}
	if bos[0].Line != 0 || bos[0].Start != 8 || bos[0].Duration != 2 || bos[0].Reason != "午休" {
		t.Fatalf("unexpected first row %+v", bos[0])
	}
	if bos[1].Line != 2 || bos[1].Duration != 2 {
		t.Fatalf("expected 45 minutes rounded up to 2 slots, got %+v", bos[1])
	}
}

func TestReadBookOuts_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{"missing column", "日期,线路,开始时间,时长\n2025-06-02,1,12:00,60\n"},
		{"bad date", "日期,线路,开始时间,时长,原因\n06/02,1,12:00,60,x\n"},
		{"bad line", "日期,线路,开始时间,时长,原因\n2025-06-02,9,12:00,60,x\n"},
		{"past end of day", "日期,线路,开始时间,时长,原因\n2025-06-02,1,16:30,60,x\n"},
		{"overlapping rows", "日期,线路,开始时间,时长,原因\n2025-06-02,1,12:00,60,x\n2025-06-02,1,12:30,30,y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ReadBookOuts(strings.NewReader(tt.in)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWriteThenReadBookOuts(t *testing.T) {
	t.Parallel()

	date := slot.Date{Year: 2025, Month: 6, Day: 2}
	bos := []domain.BookOut{
		{View: slot.ViewPrinters, Date: date, Line: 2, Start: 5, Duration: 3, Reason: "换版"},
		{View: slot.ViewPrinters, Date: date, Line: 0, Start: 0, Duration: 1, Reason: "培训"},
	}

	var buf bytes.Buffer
	if err := WriteBookOuts(&buf, bos); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "2025-06-02,3,10:30,90,换版") {
		t.Fatalf("unexpected csv output:\n%s", buf.String())
	}

	got, err := ReadBookOuts(&buf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0].Line != 0 || got[1].Start != 5 {
		t.Fatalf("expected rows sorted by line, got %+v", got)
	}
}

func TestSeedBookOuts(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	board := timeline.NewBoard("timeline", ids.NewCounter("bo-", 1), timeline.WithLogger(logger))
	date := slot.Date{Year: 2025, Month: 6, Day: 2}
	if _, err := board.Place(domain.Order{ID: "A"}, date, 0, 8, 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bos := []domain.BookOut{
		{Date: date, Line: 0, Start: 8, Duration: 2, Reason: "午休"},
		{Date: date, Line: 1, Start: 8, Duration: 2, Reason: "午休"},
	}
	if cnt := SeedBookOuts(board, bos); cnt != 1 {
		t.Fatalf("expected 1 book out seeded, got %d", cnt)
	}
	if !board.IsBlocking(1, date, 9) {
		t.Fatalf("expected line 1 slot 9 blocked")
	}
}
