package allocation

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

func fixture() (*optimizer.Allocation, *project.Jobs, *workforce.Employees) {
	alloc := &optimizer.Allocation{
		Assignments: []*optimizer.Assignment{
			{EmployeeID: "E0001", JobID: "P0001", Role: "Developer", Level: "Senior", Score: 0.85},
		},
		UnfilledSeats: []optimizer.Seat{
			{JobID: "P0001", Role: "QA Engineer", Level: "Mid"},
			{JobID: "P0002", Role: "Developer", Level: "Junior"},
		},
		Benched: []string{"E0002"},
	}
	jobs := &project.Jobs{Items: []*project.Job{
		{ID: "P0001", ProjectName: "Fraud Detection for Banking", Priority: "high"},
		{ID: "P0002", ProjectName: "Cloud Migration for Retail", Priority: "low"},
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		{ID: "E0001", Name: "Priya Sharma"},
		{ID: "E0002", Name: "Rohan Iyer"},
	}}
	return alloc, jobs, employees
}

func TestReportByProject(t *testing.T) {
	alloc, jobs, employees := fixture()

	report := ReportByProject(alloc, jobs, employees)
	if len(report) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(report))
	}

	p1 := report["P0001"]
	if p1 == nil || p1.ProjectName != "Fraud Detection for Banking" {
		t.Fatalf("unexpected P0001 report: %+v", p1)
	}
	if len(p1.Seats) != 2 {
		t.Fatalf("expected 2 seats for P0001, got %d", len(p1.Seats))
	}
	if !p1.Seats[0].Filled || p1.Seats[0].EmployeeName != "Priya Sharma" {
		t.Fatalf("unexpected filled seat: %+v", p1.Seats[0])
	}
	if p1.Seats[1].Filled {
		t.Fatalf("expected second seat to be open: %+v", p1.Seats[1])
	}

	p2 := report["P0002"]
	if p2 == nil || len(p2.Seats) != 1 || p2.Seats[0].Filled {
		t.Fatalf("unexpected P0002 report: %+v", p2)
	}
}

func TestWriteCSV(t *testing.T) {
	alloc, jobs, employees := fixture()
	path := filepath.Join(t.TempDir(), "allocation.csv")

	if err := WriteCSV(alloc, jobs, employees, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	row := records[1]
	if row[0] != "E0001" || row[1] != "Priya Sharma" || row[3] != "Fraud Detection for Banking" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	alloc, _, _ := fixture()

	name, err := DumpToTmpFile(alloc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(name)

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected dump content")
	}
}
