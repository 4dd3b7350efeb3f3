package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider names the AI provider that performed the resume analysis.
	FieldProvider = "ai_provider"
	// FieldModel names the model identifier behind the analysis.
	FieldModel = "ai_model"
	// FieldStage names the pipeline stage emitting the entry.
	FieldStage = "stage"
)

// StringField is a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields. Keys and values are
// trimmed; pairs with an empty side are dropped so log entries stay compact.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the fields to the logger. A nil logger becomes a no-op
// logger; with no fields the logger is returned unchanged.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithAnalyzer tags the logger with the AI provider and model fields.
func WithAnalyzer(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}

// WithStage tags the logger with the pipeline stage name.
func WithStage(logger *zap.Logger, stage string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldStage, Value: stage},
	)...)
}
