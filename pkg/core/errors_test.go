package core_test

import (
	"testing"

	"github.com/aretw0/marl/pkg/core"
)

func TestErrorList_OverwriteKeepsPosition(t *testing.T) {
	e := core.NewErrorList()
	e.Add("title", "too short")
	e.Add("slug", "taken")
	e.Add("title", "still too short")

	if e.Len() != 2 {
		t.Fatalf("expected 2 errors, got %d", e.Len())
	}
	if got := e.Get("title"); got != "still too short" {
		t.Errorf("re-raising must overwrite, got %q", got)
	}
	if got := e.First(); got != "still too short" {
		t.Errorf("first error must keep original position, got %q", got)
	}
}

func TestErrorList_Accessors(t *testing.T) {
	e := core.NewErrorList()
	if !e.Empty() || e.First() != "" {
		t.Error("fresh list must be empty with blank first message")
	}
	if e.Get("nope") != "" {
		t.Error("missing field must return the empty sentinel")
	}

	e.AddMany(map[string]string{"b": "bad", "a": "awful"})
	fields := e.Fields()
	if len(fields) != 2 || fields[0].Field != "a" || fields[1].Field != "b" {
		t.Errorf("AddMany must record in sorted order, got %v", fields)
	}

	e.Reset()
	if !e.Empty() {
		t.Error("reset must clear all errors")
	}
}

func TestErrorList_AddResult(t *testing.T) {
	res := core.Validate(core.Attributes{"title": ""}, core.Rules{
		"title": {"required"},
	}, nil, nil)

	e := core.NewErrorList()
	e.AddResult(res)
	if !e.Has("title") {
		t.Error("failures must be copied from the result")
	}

	e.Reset()
	passing := core.Validate(core.Attributes{"title": "x"}, core.Rules{
		"title": {"required"},
	}, nil, nil)
	e.AddResult(passing)
	e.AddResult(nil)
	if !e.Empty() {
		t.Error("passing or nil results must not raise anything")
	}
}
