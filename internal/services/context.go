package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	projectKey   contextKey = "project"
	layerKey     contextKey = "layer"
	mediaTypeKey contextKey = "media_type"
)

// WithRunID annotates context with the reconciliation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithProject annotates context with the project directory name.
func WithProject(ctx context.Context, project string) context.Context {
	if project == "" {
		return ctx
	}
	return context.WithValue(ctx, projectKey, project)
}

// ProjectFromContext returns the project directory name if present.
func ProjectFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(projectKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLayer annotates context with the layer being reconciled.
func WithLayer(ctx context.Context, layer string) context.Context {
	if layer == "" {
		return ctx
	}
	return context.WithValue(ctx, layerKey, layer)
}

// LayerFromContext returns the layer name if present.
func LayerFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(layerKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithMediaType annotates context with the media type being reconciled.
func WithMediaType(ctx context.Context, mediaType string) context.Context {
	if mediaType == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaTypeKey, mediaType)
}

// MediaTypeFromContext returns the media type if present.
func MediaTypeFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaTypeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
