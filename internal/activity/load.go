package activity

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Load reads an activity table from path, picking the format by extension
// (.json is JSON, anything else is treated as CSV). The returned table has
// already passed Validate.
func Load(path string, maxPredecessors int) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path, maxPredecessors)
	}
	return LoadCSV(path, maxPredecessors)
}

// LoadCSV reads the tabular format: columns Activity, Name (optional),
// Average_Duration, Percent_Uncertainty, and any number of Predecessor_N
// columns where a negative value means "no predecessor".
func LoadCSV(path string, maxPredecessors int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read activity table %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("activity table %s has no data rows", path)
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, fmt.Errorf("activity table %s: %w", path, err)
	}

	t := &Table{MaxPredecessors: maxPredecessors}
	for line, rec := range records[1:] {
		a, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("activity table %s row %d: %w", path, line+2, err)
		}
		t.Activities = append(t.Activities, a)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("activity table %s: %w", path, err)
	}
	return t, nil
}

type columns struct {
	id      int
	name    int // -1 if absent
	avg     int
	uncert  int
	preds   []int // Predecessor_N column indexes, in N order
}

func mapColumns(header []string) (columns, error) {
	cols := columns{id: -1, name: -1, avg: -1, uncert: -1}
	for i, h := range header {
		switch key := strings.ToLower(strings.TrimSpace(h)); {
		case key == "activity":
			cols.id = i
		case key == "name":
			cols.name = i
		case key == "average_duration":
			cols.avg = i
		case key == "percent_uncertainty":
			cols.uncert = i
		case strings.HasPrefix(key, "predecessor"):
			cols.preds = append(cols.preds, i)
		}
	}
	switch {
	case cols.id < 0:
		return cols, fmt.Errorf("missing Activity column")
	case cols.avg < 0:
		return cols, fmt.Errorf("missing Average_Duration column")
	case cols.uncert < 0:
		return cols, fmt.Errorf("missing Percent_Uncertainty column")
	}
	return cols, nil
}

func parseRow(rec []string, cols columns) (Activity, error) {
	var a Activity

	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	id, err := strconv.Atoi(field(cols.id))
	if err != nil {
		return a, fmt.Errorf("bad activity ID %q: %w", field(cols.id), err)
	}
	avg, err := strconv.ParseFloat(field(cols.avg), 64)
	if err != nil {
		return a, fmt.Errorf("bad average duration %q: %w", field(cols.avg), err)
	}
	uncert, err := strconv.ParseFloat(field(cols.uncert), 64)
	if err != nil {
		return a, fmt.Errorf("bad uncertainty percent %q: %w", field(cols.uncert), err)
	}

	a = Activity{ID: id, Name: field(cols.name), AvgDuration: avg, UncertaintyPct: uncert}

	for _, pi := range cols.preds {
		raw := field(pi)
		if raw == "" {
			continue
		}
		p, err := strconv.Atoi(raw)
		if err != nil {
			return a, fmt.Errorf("bad predecessor %q: %w", raw, err)
		}
		if p < 0 {
			continue // sentinel: empty slot, not a dependency
		}
		a.Predecessors = append(a.Predecessors, p)
	}
	return a, nil
}

// LoadJSON reads a JSON activity table. Both a bare array and an
// {"activities": [...]} wrapper are accepted; each element carries id, name,
// average_duration, percent_uncertainty, and an optional predecessors array.
func LoadJSON(path string, maxPredecessors int) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read activity table: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("activity table %s: invalid JSON", path)
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("activities")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("activity table %s: expected an array of activities", path)
	}

	t := &Table{MaxPredecessors: maxPredecessors}
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		a := Activity{
			ID:             int(item.Get("id").Int()),
			Name:           item.Get("name").String(),
			AvgDuration:    item.Get("average_duration").Float(),
			UncertaintyPct: item.Get("percent_uncertainty").Float(),
		}
		if !item.Get("id").Exists() {
			parseErr = fmt.Errorf("activity table %s: entry %d missing id", path, len(t.Activities))
			return false
		}
		for _, p := range item.Get("predecessors").Array() {
			if p.Int() < 0 {
				continue
			}
			a.Predecessors = append(a.Predecessors, int(p.Int()))
		}
		t.Activities = append(t.Activities, a)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("activity table %s: %w", path, err)
	}
	return t, nil
}
