package services

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Defaults used when the model omits a field.
const (
	DefaultAIExpectedScore = 75.0
	DefaultAIRationale     = "AI-optimized lineup based on performance metrics."
)

// Response formats recognised by ParseLineupResponse.
const (
	FormatJSON    = "json"
	FormatMarkers = "markers"
)

// ErrUnparseableResponse means the text was neither schema-valid JSON nor a
// marker-formatted reply.
var ErrUnparseableResponse = errors.New("unparseable ai response")

//go:embed schemas/lineup_response.schema.json
var lineupResponseSchema string

var (
	compiledSchema     *gojsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
	firstNumber        = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// ParsedLineup is a model reply reduced to its usable fields. PlayerIDs is
// unfiltered: ids may be unknown or repeated.
type ParsedLineup struct {
	PlayerIDs     []int
	ExpectedScore float64
	Rationale     string
	Format        string
}

type lineupDocument struct {
	Lineup        []int    `json:"lineup"`
	ExpectedScore *float64 `json:"expected_score"`
	Rationale     string   `json:"rationale"`
}

func lineupSchema() (*gojsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(lineupResponseSchema))
	})
	return compiledSchema, compiledSchemaErr
}

// ParseLineupResponse reads a schema-valid JSON document first and falls back
// to the LINEUP:/SCORE:/RATIONALE: marker format.
func ParseLineupResponse(text string) (ParsedLineup, error) {
	cleaned := cleanJSONBlock(text)

	if parsed, err := parseJSONLineup(cleaned); err == nil {
		return parsed, nil
	}

	if strings.Contains(text, "LINEUP:") {
		return parseMarkerLineup(text), nil
	}

	return ParsedLineup{}, ErrUnparseableResponse
}

func parseJSONLineup(text string) (ParsedLineup, error) {
	schema, err := lineupSchema()
	if err != nil {
		return ParsedLineup{}, fmt.Errorf("failed to compile lineup schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return ParsedLineup{}, fmt.Errorf("failed to read response: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return ParsedLineup{}, fmt.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}

	var doc lineupDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return ParsedLineup{}, fmt.Errorf("failed to decode response: %w", err)
	}

	parsed := ParsedLineup{
		PlayerIDs:     doc.Lineup,
		ExpectedScore: DefaultAIExpectedScore,
		Rationale:     DefaultAIRationale,
		Format:        FormatJSON,
	}
	if doc.ExpectedScore != nil {
		parsed.ExpectedScore = *doc.ExpectedScore
	}
	if r := strings.TrimSpace(doc.Rationale); r != "" {
		parsed.Rationale = r
	}
	return parsed, nil
}

func parseMarkerLineup(text string) ParsedLineup {
	parsed := ParsedLineup{
		ExpectedScore: DefaultAIExpectedScore,
		Rationale:     DefaultAIRationale,
		Format:        FormatMarkers,
	}

	if line, ok := markerLine(text, "LINEUP:"); ok {
		line = strings.NewReplacer("[", "", "]", "").Replace(line)
		for _, field := range strings.Split(line, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || id < 0 {
				continue
			}
			parsed.PlayerIDs = append(parsed.PlayerIDs, id)
		}
	}

	if line, ok := markerLine(text, "SCORE:"); ok {
		if m := firstNumber.FindString(line); m != "" {
			if score, err := strconv.ParseFloat(m, 64); err == nil && score >= 0 {
				parsed.ExpectedScore = score
			}
		}
	}

	if idx := strings.Index(text, "RATIONALE:"); idx >= 0 {
		if r := strings.TrimSpace(text[idx+len("RATIONALE:"):]); r != "" {
			parsed.Rationale = r
		}
	}

	return parsed
}

// markerLine returns the remainder of the line following marker.
func markerLine(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return rest, true
}
