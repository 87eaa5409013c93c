package utils

import (
	"context"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func GenerateTraceId() string {
	return uuid.New().String()
}

// ExtractServiceName returns the service identity attached to every log entry.
func ExtractServiceName() string {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "campushub-server"
	}
	return service
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

func LogMessageWithFields(ctx context.Context, level, message string) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
	})

	LogEntry(entry, level, message)
}

func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	entry := log.WithFields(log.Fields{
		"traceId": traceId,
		"service": ExtractServiceName(),
		"error":   err,
	})

	LogEntry(entry, level, message)
}
