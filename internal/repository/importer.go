package repository

import (
	"context"
	"encoding/json"
)

// ParseResult is the import worker's reply: the parsed value on success, or
// the parse error rendered as a string.
type ParseResult struct {
	OK   bool
	Data any
	Err  string
}

type parseJob struct {
	text []byte
	out  chan ParseResult
}

// Importer parses raw import payloads on a dedicated worker goroutine so a
// large file never blocks the request path that accepted it.
type Importer struct {
	jobs chan parseJob
}

// NewImporter starts the parse worker.
func NewImporter() *Importer {
	im := &Importer{jobs: make(chan parseJob)}
	go im.run()
	return im
}

func (im *Importer) run() {
	for job := range im.jobs {
		var data any
		if err := json.Unmarshal(job.text, &data); err != nil {
			job.out <- ParseResult{OK: false, Err: err.Error()}
			continue
		}
		job.out <- ParseResult{OK: true, Data: data}
	}
}

// Parse hands the payload to the worker and waits for its result or for the
// context to end.
func (im *Importer) Parse(ctx context.Context, text []byte) (ParseResult, error) {
	job := parseJob{text: text, out: make(chan ParseResult, 1)}
	select {
	case im.jobs <- job:
	case <-ctx.Done():
		return ParseResult{}, ctx.Err()
	}
	select {
	case res := <-job.out:
		return res, nil
	case <-ctx.Done():
		return ParseResult{}, ctx.Err()
	}
}

// Close stops the worker. Pending Parse calls already queued still finish.
func (im *Importer) Close() {
	close(im.jobs)
}
