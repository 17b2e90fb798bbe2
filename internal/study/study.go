// Package study assembles the freezing-of-gait metadata tables into a
// single queryable collection, with the derived columns and reshaped
// views the analyses expect.
package study

import (
	"fmt"
	"log"
	"time"

	"fogstudy/adapters/flatfile"
	"fogstudy/domain/core"
	"fogstudy/domain/table"
	"fogstudy/internal/config"
)

// Canonical dataset names.
const (
	Subjects    = "subjects"
	Events      = "events"
	Tasks       = "tasks"
	TDCSFoG     = "tdcsfog"
	DeFOG       = "defog"
	DailyLiving = "dailyliving"
	UPDRS       = "updrs"
)

// Study is an in-memory collection of named tables loaded for one session.
type Study struct {
	ID       core.StudyID
	LoadedAt core.Timestamp

	names  []string
	tables map[string]*table.Table
}

// Load reads every metadata table from disk, derives the duration columns
// and builds the UPDRS long view. All six source files must be readable.
func Load(cfg config.DataConfig) (*Study, error) {
	start := time.Now()

	sources := []struct {
		name string
		path string
	}{
		{Subjects, cfg.Subjects},
		{Events, cfg.Events},
		{Tasks, cfg.Tasks},
		{TDCSFoG, cfg.TDCSFoG},
		{DeFOG, cfg.DeFOG},
		{DailyLiving, cfg.DailyLiving},
	}

	s := &Study{
		ID:       core.NewStudyID(),
		LoadedAt: core.Now(),
		tables:   make(map[string]*table.Table),
	}

	for _, src := range sources {
		t, err := flatfile.NewReader(src.path).Read()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src.name, err)
		}
		s.add(src.name, t.Rename(src.name))
	}

	if err := s.deriveDurations(); err != nil {
		return nil, err
	}
	if err := s.buildUPDRSView(); err != nil {
		return nil, err
	}

	log.Printf("[Study] Loaded %d datasets in %v", len(s.names), time.Since(start))
	return s, nil
}

// FromTables builds a study from tables already in memory. Derivations are
// applied the same way Load applies them.
func FromTables(tables map[string]*table.Table) (*Study, error) {
	s := &Study{
		ID:       core.NewStudyID(),
		LoadedAt: core.Now(),
		tables:   make(map[string]*table.Table),
	}
	for _, name := range []string{Subjects, Events, Tasks, TDCSFoG, DeFOG, DailyLiving} {
		if t, ok := tables[name]; ok {
			s.add(name, t.Rename(name))
		}
	}
	if err := s.deriveDurations(); err != nil {
		return nil, err
	}
	if err := s.buildUPDRSView(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dataset returns the named table.
func (s *Study) Dataset(name string) (*table.Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, core.NewDatasetNotFoundError(name)
	}
	return t, nil
}

// Names returns dataset names in load order.
func (s *Study) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Study) add(name string, t *table.Table) {
	if _, ok := s.tables[name]; !ok {
		s.names = append(s.names, name)
	}
	s.tables[name] = t
}

// deriveDurations attaches the event and task duration columns. Events span
// Init to Completion, tasks span Begin to End.
func (s *Study) deriveDurations() error {
	if events, ok := s.tables[Events]; ok {
		if events.HasColumn("Init") && events.HasColumn("Completion") {
			derived, err := table.WithDurationColumn(events, "Init", "Completion", "Duration")
			if err != nil {
				return fmt.Errorf("derive event durations: %w", err)
			}
			s.tables[Events] = derived
		}
	}
	if tasks, ok := s.tables[Tasks]; ok {
		if tasks.HasColumn("Begin") && tasks.HasColumn("End") {
			derived, err := table.WithDurationColumn(tasks, "Begin", "End", "Duration")
			if err != nil {
				return fmt.Errorf("derive task durations: %w", err)
			}
			s.tables[Tasks] = derived
		}
	}
	return nil
}

// buildUPDRSView melts the two UPDRS-III score columns of the subjects
// table into a long Instrument/Score view, registered as its own dataset.
func (s *Study) buildUPDRSView() error {
	subjects, ok := s.tables[Subjects]
	if !ok {
		return nil
	}

	valueVars := []string{"UPDRSIII_Off", "UPDRSIII_On"}
	for _, v := range valueVars {
		if !subjects.HasColumn(v) {
			log.Printf("[Study] Subjects table has no %s column, skipping UPDRS view", v)
			return nil
		}
	}

	idVars := make([]string, 0, 4)
	for _, v := range []string{"Subject", "Visit", "Sex", "YearsSinceDx"} {
		if subjects.HasColumn(v) {
			idVars = append(idVars, v)
		}
	}

	melted, err := table.Melt(subjects, idVars, valueVars, "Instrument", "Score")
	if err != nil {
		return fmt.Errorf("build UPDRS view: %w", err)
	}
	s.add(UPDRS, melted.Rename(UPDRS))
	return nil
}
