package services_test

import (
	"errors"
	"strings"
	"testing"

	"soundgraph/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "enrich", "release group", "abc", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"enrich", "release group", "abc"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.Severity
	}{
		{"nil", nil, services.SeveritySkip},
		{"transient", services.Wrap(services.ErrTransient, "enrich", "search", "", errors.New("503")), services.SeveritySkip},
		{"not found", services.Wrap(services.ErrNotFound, "enrich", "release", "", nil), services.SeveritySkip},
		{"persistence", services.Wrap(services.ErrPersistence, "graph", "save", "", errors.New("disk full")), services.SeverityFatal},
		{"configuration", services.Wrap(services.ErrConfiguration, "fetch", "", "", nil), services.SeverityFatal},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}
