package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const runColumns = "id, kind, status, source_path, backend, model, language, sentences, groups_count, segments, outputs_json, error_message, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		kind        string
		status      string
		sourcePath  string
		backend     sql.NullString
		model       sql.NullString
		language    sql.NullString
		sentences   int
		groups      int
		segments    int
		outputsJSON sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&kind,
		&status,
		&sourcePath,
		&backend,
		&model,
		&language,
		&sentences,
		&groups,
		&segments,
		&outputsJSON,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:         id,
		Kind:       Kind(kind),
		Status:     Status(status),
		SourcePath: sourcePath,
		Backend:    backend.String,
		Model:      model.String,
		Language:   language.String,
		Sentences:  sentences,
		Groups:     groups,
		Segments:   segments,
		Error:      errorMsg.String,
	}
	if outputsJSON.Valid && outputsJSON.String != "" {
		if err := json.Unmarshal([]byte(outputsJSON.String), &run.Outputs); err != nil {
			return nil, err
		}
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
