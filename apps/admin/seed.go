package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core/catalog"
)

const dueDateLayout = "2006-01-02"

// seed loads the reference catalogs from CSV files. Rows already present in
// the store are skipped, so re-running a seed never duplicates.
//
// Expected files (all with a header row):
//
//	universities.csv   - name
//	task_templates.csv - name
//	deadlines.csv      - university,task,due ("task" empty = university-wide)
func (cli *commandLine) seed(dir string) error {
	ctx := context.Background()

	uniIDs, err := cli.seedUniversities(ctx, dir)
	if err != nil {
		return err
	}
	tmplIDs, err := cli.seedTaskTemplates(ctx, dir)
	if err != nil {
		return err
	}
	return cli.seedDeadlines(ctx, dir, uniIDs, tmplIDs)
}

func (cli *commandLine) seedUniversities(ctx context.Context, dir string) (map[string]string, error) {
	rows, err := readCSV(filepath.Join(dir, "universities.csv"))
	if err != nil {
		return nil, err
	}

	existing, err := cli.catSvc.Universities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying universities")
	}
	ids := make(map[string]string, len(existing))
	for _, u := range existing {
		ids[u.Name] = u.ID
	}

	missing := make([]catalog.University, 0, len(rows))
	for _, row := range rows {
		name := row[0]
		if _, ok := ids[name]; ok {
			continue
		}
		missing = append(missing, catalog.University{Name: name})
	}
	if len(missing) > 0 {
		created, err := cli.catSvc.CreateUniversities(ctx, missing...)
		if err != nil {
			return nil, errors.Wrap(err, "creating universities")
		}
		for _, u := range created {
			ids[u.Name] = u.ID
		}
	}
	cli.logger.Info(fmt.Sprintf("universities: %d seeded, %d created", len(rows), len(missing)))
	return ids, nil
}

func (cli *commandLine) seedTaskTemplates(ctx context.Context, dir string) (map[string]string, error) {
	rows, err := readCSV(filepath.Join(dir, "task_templates.csv"))
	if err != nil {
		return nil, err
	}

	existing, err := cli.catSvc.TaskTemplates(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying task templates")
	}
	ids := make(map[string]string, len(existing))
	for _, t := range existing {
		ids[t.Name] = t.ID
	}

	missing := make([]catalog.TaskTemplate, 0, len(rows))
	for _, row := range rows {
		name := row[0]
		if _, ok := ids[name]; ok {
			continue
		}
		missing = append(missing, catalog.TaskTemplate{Name: name})
	}
	if len(missing) > 0 {
		created, err := cli.catSvc.CreateTaskTemplates(ctx, missing...)
		if err != nil {
			return nil, errors.Wrap(err, "creating task templates")
		}
		for _, t := range created {
			ids[t.Name] = t.ID
		}
	}
	cli.logger.Info(fmt.Sprintf("task templates: %d seeded, %d created", len(rows), len(missing)))
	return ids, nil
}

func (cli *commandLine) seedDeadlines(ctx context.Context, dir string, uniIDs, tmplIDs map[string]string) error {
	rows, err := readCSV(filepath.Join(dir, "deadlines.csv"))
	if err != nil {
		return err
	}

	existing, err := cli.catSvc.Deadlines(ctx)
	if err != nil {
		return errors.Wrap(err, "querying deadlines")
	}
	type dlKey struct{ uni, tmpl string }
	known := make(map[dlKey]struct{}, len(existing))
	for _, d := range existing {
		known[dlKey{d.UniversityID, d.TemplateID}] = struct{}{}
	}

	missing := make([]catalog.Deadline, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return errors.Errorf("deadlines.csv: want university,task,due; got %v", row)
		}
		uniID, ok := uniIDs[row[0]]
		if !ok {
			return errors.Errorf("deadlines.csv: unknown university %q", row[0])
		}
		var tmplID string
		if row[1] != "" {
			if tmplID, ok = tmplIDs[row[1]]; !ok {
				return errors.Errorf("deadlines.csv: unknown task template %q", row[1])
			}
		}
		due, err := time.Parse(dueDateLayout, row[2])
		if err != nil {
			return errors.Wrapf(err, "deadlines.csv: parsing due date %q", row[2])
		}

		if _, ok = known[dlKey{uniID, tmplID}]; ok {
			continue
		}
		missing = append(missing, catalog.Deadline{UniversityID: uniID, TemplateID: tmplID, Due: due})
	}
	if len(missing) > 0 {
		if _, err = cli.catSvc.CreateDeadlines(ctx, missing...); err != nil {
			return errors.Wrap(err, "creating deadlines")
		}
	}
	cli.logger.Info(fmt.Sprintf("deadlines: %d seeded, %d created", len(rows), len(missing)))
	return nil
}

// readCSV returns the records of a CSV file, header row dropped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
