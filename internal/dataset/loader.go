// Package dataset reads the static creature collection the dashboard shows.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"go.uber.org/zap"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// StdinSource reads the dataset from standard input.
const StdinSource = "-"

var (
	// ErrMalformedRecord is returned when a record is missing a field or carries an invalid value.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrDuplicateID is returned when two records share an id.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrNoInput is returned for the stdin source when stdin is a terminal.
	ErrNoInput = errors.New("stdin is a terminal, no dataset piped in")
)

// Loader performs the single read of the dataset.
type Loader struct {
	client *http.Client
	stdin  *os.File
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithStdin replaces os.Stdin for the "-" source.
func WithStdin(f *os.File) Option {
	return func(l *Loader) { l.stdin = f }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: http.DefaultClient,
		stdin:  os.Stdin,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and validates the collection behind source. There are no
// retries; callers decide what a failure means.
func (l *Loader) Load(ctx context.Context, source string) ([]creature.Record, error) {
	r, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	records, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}
	l.logger.Debug("dataset loaded", zap.String("source", source), zap.Int("records", len(records)))
	return records, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("no dataset source given")
	case source == StdinSource:
		if term.IsTerminal(l.stdin.Fd()) {
			return nil, ErrNoInput
		}
		return io.NopCloser(l.stdin), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %s", source, resp.Status)
		}
		return resp.Body, nil
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %w", err)
		}
		return f, nil
	}
}

// rawRecord uses pointers so missing fields can be told apart from zero values.
type rawRecord struct {
	ID             *int     `json:"id"`
	Name           *string  `json:"name"`
	Type           []string `json:"type"`
	Height         *float64 `json:"height"`
	Weight         *float64 `json:"weight"`
	BMI            *float64 `json:"bmi"`
	BaseExperience *int     `json:"base_experience"`
	Order          *int     `json:"order"`
	SpriteURL      string   `json:"default_front_sprite"`
}

// Decode parses a JSON array of records and validates each one.
func Decode(r io.Reader) ([]creature.Record, error) {
	var raw []rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	records := make([]creature.Record, 0, len(raw))
	seen := make(map[int]int, len(raw))
	for i, rr := range raw {
		rec, err := rr.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, ok := seen[rec.ID]; ok {
			return nil, fmt.Errorf("record %d: %w %d (first seen at record %d)", i, ErrDuplicateID, rec.ID, prev)
		}
		seen[rec.ID] = i
		records = append(records, rec)
	}
	return records, nil
}

func (rr rawRecord) record() (creature.Record, error) {
	switch {
	case rr.ID == nil || *rr.ID <= 0:
		return creature.Record{}, fmt.Errorf("%w: id must be a positive integer", ErrMalformedRecord)
	case rr.Name == nil || *rr.Name == "":
		return creature.Record{}, fmt.Errorf("%w: id %d: missing name", ErrMalformedRecord, *rr.ID)
	case rr.Height == nil || *rr.Height <= 0:
		return creature.Record{}, fmt.Errorf("%w: id %d: height must be positive", ErrMalformedRecord, *rr.ID)
	case rr.Weight == nil || *rr.Weight <= 0:
		return creature.Record{}, fmt.Errorf("%w: id %d: weight must be positive", ErrMalformedRecord, *rr.ID)
	case rr.BMI == nil:
		return creature.Record{}, fmt.Errorf("%w: id %d: missing bmi", ErrMalformedRecord, *rr.ID)
	case rr.BaseExperience != nil && *rr.BaseExperience < 0:
		return creature.Record{}, fmt.Errorf("%w: id %d: base_experience must be >= 0", ErrMalformedRecord, *rr.ID)
	}

	rec := creature.Record{
		ID:        *rr.ID,
		Name:      *rr.Name,
		Type:      rr.Type,
		Height:    *rr.Height,
		Weight:    *rr.Weight,
		BMI:       *rr.BMI,
		SpriteURL: rr.SpriteURL,
	}
	if rr.BaseExperience != nil {
		rec.BaseExperience = *rr.BaseExperience
	}
	if rr.Order != nil {
		rec.Order = *rr.Order
	}
	return rec, nil
}
