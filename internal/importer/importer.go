// Package importer reads roster files into an import batch.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cricket-score/internal/domain"
	"cricket-score/internal/repository"

	"gopkg.in/yaml.v3"
)

// File is the on-disk roster layout.
type File struct {
	Tournament *Tournament `yaml:"tournament,omitempty"`
	Teams      []Team      `yaml:"teams"`
	Players    []Player    `yaml:"players"`
	Groups     []Group     `yaml:"groups,omitempty"`
	GroupTeams []GroupTeam `yaml:"groupTeams,omitempty"`
	Matches    []Match     `yaml:"matches,omitempty"`
}

type Tournament struct {
	Name      string `yaml:"name"`
	StartDate string `yaml:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   string `yaml:"endDate,omitempty"`
}

type Team struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"shortName,omitempty"`
}

type Player struct {
	TeamName     string `yaml:"teamName"`
	FullName     string `yaml:"fullName"`
	Role         string `yaml:"role,omitempty"`
	BattingStyle string `yaml:"battingStyle,omitempty"`
	BowlingStyle string `yaml:"bowlingStyle,omitempty"`
}

type Group struct {
	Name string `yaml:"name"`
}

type GroupTeam struct {
	GroupName string `yaml:"groupName"`
	TeamName  string `yaml:"teamName"`
}

type Match struct {
	Title     string `yaml:"title"`
	TeamA     string `yaml:"teamA"`
	TeamB     string `yaml:"teamB"`
	GroupName string `yaml:"groupName,omitempty"`
	MaxOvers  int    `yaml:"maxOvers,omitempty"`
}

func ParseFile(path string) (*repository.ImportBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a roster document. Unknown keys are rejected.
func Parse(r io.Reader) (*repository.ImportBatch, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("roster file is empty: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to parse YAML: %v: %w", err, domain.ErrInvalidInput)
	}
	return f.Batch()
}

// Batch converts the file into the repository's import shape.
func (f *File) Batch() (*repository.ImportBatch, error) {
	batch := &repository.ImportBatch{}

	if f.Tournament != nil && f.Tournament.Name != "" {
		t := &domain.Tournament{Name: f.Tournament.Name}
		var err error
		if t.StartDate, err = parseDate("startDate", f.Tournament.StartDate); err != nil {
			return nil, err
		}
		if t.EndDate, err = parseDate("endDate", f.Tournament.EndDate); err != nil {
			return nil, err
		}
		if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
			return nil, fmt.Errorf("tournament ends before it starts: %w", domain.ErrInvalidInput)
		}
		batch.Tournament = t
	}

	for _, t := range f.Teams {
		batch.Teams = append(batch.Teams, domain.Team{Name: t.Name, ShortName: t.ShortName})
	}
	for _, p := range f.Players {
		batch.Players = append(batch.Players, repository.ImportPlayer{
			TeamName: p.TeamName,
			Player: domain.Player{
				FullName:     p.FullName,
				Role:         p.Role,
				BattingStyle: p.BattingStyle,
				BowlingStyle: p.BowlingStyle,
			},
		})
	}
	for _, g := range f.Groups {
		batch.Groups = append(batch.Groups, g.Name)
	}
	for _, gt := range f.GroupTeams {
		batch.GroupTeams = append(batch.GroupTeams, repository.ImportGroupTeam{GroupName: gt.GroupName, TeamName: gt.TeamName})
	}
	for _, m := range f.Matches {
		batch.Matches = append(batch.Matches, repository.ImportMatch{
			Title:     m.Title,
			TeamA:     m.TeamA,
			TeamB:     m.TeamB,
			GroupName: m.GroupName,
			MaxOvers:  m.MaxOvers,
		})
	}
	return batch, nil
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("tournament %s %q is not YYYY-MM-DD: %w", field, v, domain.ErrInvalidInput)
	}
	return &t, nil
}
