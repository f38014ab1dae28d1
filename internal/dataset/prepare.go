package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

const (
	// DefaultCatalogEndpoint is the PokéAPI GraphQL endpoint.
	DefaultCatalogEndpoint = "https://beta.pokeapi.co/graphql/v1beta"
	// DefaultSpriteBaseURL replaces the "/media" prefix of sprite paths the
	// GraphQL API returns.
	DefaultSpriteBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master"

	// API heights are in decimetres and weights in hectograms.
	heightToMetres = 0.1
	weightToKilos  = 0.1

	catalogOperation = "getPokemonFromCertainGames"
)

// DefaultGames are the game versions a creature must appear in to be kept.
var DefaultGames = []string{"red", "blue", "leafgreen", "white"}

// CatalogEntry is one creature as the GraphQL catalog returns it.
type CatalogEntry struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Height         int             `json:"height"`
	Weight         int             `json:"weight"`
	Order          int             `json:"order"`
	BaseExperience *int            `json:"base_experience"`
	Types          []CatalogType   `json:"pokemon_v2_pokemontypes"`
	Sprites        []CatalogSprite `json:"pokemon_v2_pokemonsprites"`
}

type CatalogType struct {
	Slot int `json:"slot"`
	Type struct {
		Name string `json:"name"`
	} `json:"pokemon_v2_type"`
}

// CatalogSprite holds the sprite document. The API serves it either as a
// JSON object or as a string containing one.
type CatalogSprite struct {
	Sprites json.RawMessage `json:"sprites"`
}

func (s CatalogSprite) frontDefault() (string, error) {
	doc := []byte(s.Sprites)
	if len(doc) > 0 && doc[0] == '"' {
		var inner string
		if err := json.Unmarshal(doc, &inner); err != nil {
			return "", err
		}
		doc = []byte(inner)
	}
	if len(doc) == 0 || string(doc) == "null" {
		return "", nil
	}
	var sprites struct {
		FrontDefault *string `json:"front_default"`
	}
	if err := json.Unmarshal(doc, &sprites); err != nil {
		return "", err
	}
	if sprites.FrontDefault == nil {
		return "", nil
	}
	return *sprites.FrontDefault, nil
}

type graphQLRequest struct {
	OperationName string `json:"operationName"`
	Query         string `json:"query"`
}

type graphQLResponse struct {
	Data struct {
		Creatures []CatalogEntry `json:"pokemon_v2_pokemon"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// CatalogQuery builds the query selecting every creature that appears in at
// least one of games.
func CatalogQuery(games []string) string {
	alts := make([]string, len(games))
	for i, g := range games {
		alts[i] = fmt.Sprintf("{name: {_eq: %s}}", strconv.Quote(g))
	}
	return `query ` + catalogOperation + ` {
  pokemon_v2_pokemon(where: {pokemon_v2_pokemongameindices: {pokemon_v2_version: {_or: [` + strings.Join(alts, ", ") + `]}}}) {
    id
    height
    name
    order
    base_experience
    weight
    pokemon_v2_pokemontypes {
      slot
      pokemon_v2_type {
        name
      }
    }
    pokemon_v2_pokemonsprites {
      sprites
    }
  }
}`
}

// FetchCatalog posts the catalog query to endpoint once and returns the raw
// entries.
func (l *Loader) FetchCatalog(ctx context.Context, endpoint string, games []string) ([]CatalogEntry, error) {
	if len(games) == 0 {
		return nil, errors.New("no games to filter by")
	}
	body, err := json.Marshal(graphQLRequest{OperationName: catalogOperation, Query: CatalogQuery(games)})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying %s: unexpected status %s", endpoint, resp.Status)
	}

	var out graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing catalog response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("querying %s: %s", endpoint, strings.Join(msgs, "; "))
	}
	l.logger.Debug("catalog fetched",
		zap.String("endpoint", endpoint),
		zap.Strings("games", games),
		zap.Int("entries", len(out.Data.Creatures)))
	return out.Data.Creatures, nil
}

// BMI is weight in kilograms over height in metres squared, rounded to two
// decimals. Inputs are in API units.
func BMI(height, weight int) float64 {
	h := float64(height) * heightToMetres
	bmi := float64(weight) * weightToKilos / (h * h)
	return math.Round(bmi*100) / 100
}

// SpriteURL rewrites the "/media" prefix of an API sprite path onto base.
func SpriteURL(path, base string) string {
	return strings.ReplaceAll(path, "/media", base)
}

// Transform turns catalog entries into dataset records. Types are ordered
// by slot and the last sprite document is used.
func Transform(entries []CatalogEntry, spriteBase string) ([]creature.Record, error) {
	records := make([]creature.Record, 0, len(entries))
	for i, e := range entries {
		if e.Height <= 0 {
			return nil, fmt.Errorf("entry %d: %w: id %d: height must be positive", i, ErrMalformedRecord, e.ID)
		}

		types := append([]CatalogType(nil), e.Types...)
		sort.SliceStable(types, func(a, b int) bool { return types[a].Slot < types[b].Slot })
		labels := make([]string, 0, len(types))
		for _, t := range types {
			labels = append(labels, t.Type.Name)
		}

		var sprite string
		if n := len(e.Sprites); n > 0 {
			path, err := e.Sprites[n-1].frontDefault()
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w: id %d: sprites: %v", i, ErrMalformedRecord, e.ID, err)
			}
			if path != "" {
				sprite = SpriteURL(path, spriteBase)
			}
		}

		rec := creature.Record{
			ID:        e.ID,
			Name:      e.Name,
			Type:      labels,
			Height:    float64(e.Height),
			Weight:    float64(e.Weight),
			BMI:       BMI(e.Height, e.Weight),
			Order:     e.Order,
			SpriteURL: sprite,
		}
		if e.BaseExperience != nil {
			rec.BaseExperience = *e.BaseExperience
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode writes records as the indented JSON array the dashboard loads. The
// output is run back through Decode first, so a file that would not load is
// never written.
func Encode(w io.Writer, records []creature.Record) error {
	if records == nil {
		records = []creature.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if _, err := Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("validating dataset: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	return nil
}
