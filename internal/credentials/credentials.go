// Package credentials resolves the Gemini API credentials from an ordered
// list of secret sources. Resolution never mutates the process environment;
// the result is threaded explicitly into agent construction.
package credentials

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Environment keys understood by the resolver.
const (
	KeyAPIKey      = "GOOGLE_API_KEY"
	KeyUseVertexAI = "GOOGLE_GENAI_USE_VERTEXAI"
	KeyProject     = "GOOGLE_CLOUD_PROJECT"
	KeyLocation    = "GOOGLE_CLOUD_LOCATION"
)

// ErrMissingCredential is returned when no source yields the API key.
var ErrMissingCredential = errors.New("GOOGLE_API_KEY not found: set it in the secrets vault, the .env file or the environment")

// Credentials is the resolved configuration consumed by the agent runtime.
type Credentials struct {
	APIKey      string
	UseVertexAI bool
	Project     string
	Location    string
	// Source names the source that produced the API key.
	Source string
}

// Source is a place secrets can be looked up in.
type Source interface {
	Name() string
	// Lookup returns found=false when the source has no value for key.
	Lookup(ctx context.Context, key string) (value string, found bool, err error)
}

// Prober is implemented by sources whose presence is detected at runtime.
// A source reporting false is skipped without a lookup.
type Prober interface {
	Available(ctx context.Context) bool
}

// Resolver tries each source once, in order.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver over sources in priority order
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve returns the credentials from the first source holding the API key.
// Source failures fall through to the next source.
func (r *Resolver) Resolve(ctx context.Context) (Credentials, error) {
	for _, src := range r.sources {
		if p, ok := src.(Prober); ok && !p.Available(ctx) {
			log.Debug().Str("source", src.Name()).Msg("secret source unavailable")
			continue
		}

		key, found, err := src.Lookup(ctx, KeyAPIKey)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("secret lookup failed, trying next source")
			continue
		}
		if !found || key == "" {
			continue
		}

		creds := Credentials{APIKey: key, Source: src.Name()}
		creds.UseVertexAI = lookupBool(ctx, src, KeyUseVertexAI)
		creds.Project = lookupString(ctx, src, KeyProject)
		creds.Location = lookupString(ctx, src, KeyLocation)

		log.Info().Str("source", src.Name()).Bool("vertexai", creds.UseVertexAI).Msg("credentials loaded")
		return creds, nil
	}
	return Credentials{}, ErrMissingCredential
}

func lookupString(ctx context.Context, src Source, key string) string {
	v, found, err := src.Lookup(ctx, key)
	if err != nil || !found {
		return ""
	}
	return v
}

func lookupBool(ctx context.Context, src Source, key string) bool {
	v := lookupString(ctx, src, key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("not a boolean, using false")
		return false
	}
	return b
}
