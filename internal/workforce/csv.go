package workforce

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"employee_id", "name", "role", "level", "years_experience", "skills",
	"location", "remote_ok", "cost_rate", "available_from", "bench_days",
	"current_project",
}

// WriteCSV writes the collection to path, creating parent-less files with the
// usual 0644 mode. Skills are pipe-joined.
func (es *Employees) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range es.Items {
		record := []string{
			e.ID,
			e.Name,
			e.Role,
			e.Level,
			strconv.Itoa(e.YearsExperience),
			strings.Join(e.Skills, "|"),
			e.Location,
			strconv.FormatBool(e.RemoteOK),
			strconv.Itoa(e.CostRate),
			e.AvailableFrom.Format(DateLayout),
			strconv.Itoa(e.BenchDays),
			e.CurrentProject,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV loads a collection previously written by WriteCSV.
func ReadCSV(path string) (*Employees, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(records) == 0 {
		return &Employees{}, nil
	}

	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	es := &Employees{}
	for i, rec := range records[1:] {
		e, err := employeeFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		es.Items = append(es.Items, e)
	}

	return es, nil
}

func checkHeader(got []string) error {
	if len(got) != len(csvHeader) {
		return fmt.Errorf("unexpected header length %d, want %d", len(got), len(csvHeader))
	}
	for i, col := range csvHeader {
		if got[i] != col {
			return fmt.Errorf("unexpected column %q at position %d, want %q", got[i], i, col)
		}
	}
	return nil
}

func employeeFromRecord(rec []string) (*Employee, error) {
	if len(rec) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected field count %d", len(rec))
	}

	years, err := strconv.Atoi(rec[4])
	if err != nil {
		return nil, fmt.Errorf("years_experience: %w", err)
	}

	remoteOK, err := strconv.ParseBool(rec[7])
	if err != nil {
		return nil, fmt.Errorf("remote_ok: %w", err)
	}

	costRate, err := strconv.Atoi(rec[8])
	if err != nil {
		return nil, fmt.Errorf("cost_rate: %w", err)
	}

	availableFrom, err := time.Parse(DateLayout, rec[9])
	if err != nil {
		return nil, fmt.Errorf("available_from: %w", err)
	}

	benchDays, err := strconv.Atoi(rec[10])
	if err != nil {
		return nil, fmt.Errorf("bench_days: %w", err)
	}

	var skills []string
	if rec[5] != "" {
		skills = strings.Split(rec[5], "|")
	}

	return &Employee{
		ID:              rec[0],
		Name:            rec[1],
		Role:            rec[2],
		Level:           rec[3],
		YearsExperience: years,
		Skills:          skills,
		Location:        rec[6],
		RemoteOK:        remoteOK,
		CostRate:        costRate,
		AvailableFrom:   availableFrom,
		BenchDays:       benchDays,
		CurrentProject:  rec[11],
	}, nil
}
