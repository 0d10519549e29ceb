package engine_test

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmschema "github.com/dotslashderek/json-schema-llm"
	"github.com/dotslashderek/json-schema-llm/engine"
)

// chatFormatter mimics a minimal chat-completions shape: the schema rides in
// the request body, the generated JSON comes back in a content field.
type chatFormatter struct{}

func (chatFormatter) Format(prompt string, providerSchema []byte, cfg engine.ProviderConfig) (engine.Request, error) {
	body, err := json.Marshal(map[string]any{
		"model":  cfg.Model,
		"prompt": prompt,
		"schema": json.RawMessage(providerSchema),
	})
	if err != nil {
		return engine.Request{}, err
	}
	return engine.Request{URL: cfg.Endpoint, Headers: cfg.Headers, Body: body}, nil
}

func (chatFormatter) ExtractContent(raw []byte) (string, error) {
	var envelope struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", err
	}
	if envelope.Content == "" {
		return "", errors.New("response has no content field")
	}
	return envelope.Content, nil
}

type scriptedTransport struct {
	response []byte
	err      error
	lastReq  engine.Request
}

func (s *scriptedTransport) Execute(_ context.Context, req engine.Request) ([]byte, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

const personDoc = `{
	"type":"object",
	"properties":{
		"name":{"type":"string"},
		"nickname":{"type":"string"}
	},
	"required":["name"]
}`

func TestGenerate_FullRoundtrip(t *testing.T) {
	transport := &scriptedTransport{
		response: []byte(`{"content":"{\"name\":\"ada\",\"nickname\":null}"}`),
	}
	eng := engine.New(chatFormatter{}, transport, engine.ProviderConfig{
		Endpoint: "https://provider.test/v1/chat",
		Model:    "test-model",
	})

	res, err := eng.Generate(context.Background(), "describe ada", []byte(personDoc))
	require.NoError(t, err)
	require.True(t, res.IsValid(), "violations: %v", res.ValidationErrors)
	assert.Empty(t, res.Warnings)

	// The optional nickname came back null and must not survive rehydration.
	assert.Equal(t, map[string]any{"name": "ada"}, res.Data)
	assert.Equal(t, transport.response, res.RawResponse)
	assert.Equal(t, "https://provider.test/v1/chat", transport.lastReq.URL)
	// The formatted request carries the converted schema, not the original.
	assert.Contains(t, string(transport.lastReq.Body), `"anyOf"`)
}

func TestGenerate_TransportFailure(t *testing.T) {
	transport := &scriptedTransport{err: errors.New("connection refused")}
	eng := engine.New(chatFormatter{}, transport, engine.ProviderConfig{Endpoint: "https://provider.test"})

	_, err := eng.Generate(context.Background(), "p", []byte(personDoc))
	require.Error(t, err)
	var terr *engine.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "https://provider.test", terr.URL)
}

func TestGenerate_ExtractionFailure(t *testing.T) {
	transport := &scriptedTransport{response: []byte(`{"unexpected":true}`)}
	eng := engine.New(chatFormatter{}, transport, engine.ProviderConfig{})

	_, err := eng.Generate(context.Background(), "p", []byte(personDoc))
	require.Error(t, err)
	var perr *engine.ResponseParseError
	require.True(t, errors.As(err, &perr))
}

func TestGenerate_ConvertFailureAbortsBeforeTransport(t *testing.T) {
	transport := &scriptedTransport{response: []byte(`{"content":"{}"}`)}
	eng := engine.New(chatFormatter{}, transport, engine.ProviderConfig{})

	_, err := eng.Generate(context.Background(), "p", []byte(`{"$ref":"#/$defs/missing"}`))
	require.Error(t, err)
	assert.Empty(t, transport.lastReq.URL, "transport must not be called on conversion failure")
}

func TestGenerate_ConvertOptionsApply(t *testing.T) {
	transport := &scriptedTransport{response: []byte(`{"content":"{\"tags\":[{\"k\":\"a\",\"value\":\"x\"}]}"}`)}
	eng := engine.New(chatFormatter{}, transport, engine.ProviderConfig{},
		llmschema.WithMapKeyField("k"))

	doc := `{"type":"object","properties":{"tags":{"type":"object","additionalProperties":{"type":"string"}}},"required":["tags"]}`
	res, err := eng.Generate(context.Background(), "p", []byte(doc))
	require.NoError(t, err)
	require.True(t, res.IsValid(), "violations: %v", res.ValidationErrors)
	assert.Equal(t, map[string]any{"tags": map[string]any{"a": "x"}}, res.Data)
}
