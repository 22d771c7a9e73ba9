// Package logging provides component-scoped loggers for the project-start
// runtime, defaulting to a no-op implementation when no provider is wired.
package logging

import (
	"context"
	"maps"

	"github.com/wikimedia-sverige/project-start/pkg/interfaces"
)

const (
	rootComponent   = "projectstart"
	wikiComponent   = "projectstart.wiki"
	phabComponent   = "projectstart.phab"
	planComponent   = "projectstart.plan"
	importComponent = "projectstart.tsv"
)

// ComponentLogger returns a component-scoped logger. The component identifier
// is attached as a structured field so entries can be filtered predictably.
func ComponentLogger(provider interfaces.LoggerProvider, component string) interfaces.Logger {
	if component == "" {
		component = rootComponent
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(component); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"component": component})
}

// RunnerLogger returns the logger namespace reserved for the run orchestrator.
func RunnerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, rootComponent)
}

// WikiLogger returns the logger namespace reserved for wiki page building.
func WikiLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, wikiComponent)
}

// PhabLogger returns the logger namespace reserved for the Conduit client.
func PhabLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, phabComponent)
}

// PlanLogger returns the logger namespace reserved for operational plan parsing.
func PlanLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, planComponent)
}

// ImportLogger returns the logger namespace reserved for spreadsheet ingestion.
func ImportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ComponentLogger(provider, importComponent)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every entry. It satisfies the Logger
// contract so components can operate safely when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
