package commands

import (
	"context"
	"maps"

	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

type capturingLogger struct {
	fields map[string]any
}

func (l *capturingLogger) Trace(string, ...any) {}
func (l *capturingLogger) Debug(string, ...any) {}
func (l *capturingLogger) Info(string, ...any)  {}
func (l *capturingLogger) Warn(string, ...any)  {}
func (l *capturingLogger) Error(string, ...any) {}
func (l *capturingLogger) Fatal(string, ...any) {}

func (l *capturingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	maps.Copy(l.fields, fields)
	return l
}

func (l *capturingLogger) WithContext(context.Context) interfaces.Logger { return l }
