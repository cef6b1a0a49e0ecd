package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewDefaultsToInfoText(t *testing.T) {
	l := New(Config{})
	if l.Level.String() != "info" {
		t.Fatalf("expected info level, got %s", l.Level.String())
	}
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter by default, got %T", l.Formatter)
	}
}

func TestNewParsesLevel(t *testing.T) {
	l := New(Config{Level: "debug"})
	if l.Level.String() != "debug" {
		t.Fatalf("expected debug level, got %s", l.Level.String())
	}
}

func TestNewJSONFormat(t *testing.T) {
	l := New(Config{Format: "json"})
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", l.Formatter)
	}
}

func TestNewDefaultHelper(t *testing.T) {
	l := NewDefault()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}
