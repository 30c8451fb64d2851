package domain

import (
	"testing"
	"time"
)

func TestParseTemplate(t *testing.T) {
	cases := map[string]struct {
		want Template
		ok   bool
	}{
		"BASIC":      {TemplateBasic, true},
		"modern":     {TemplateModern, true},
		" Creative ": {TemplateCreative, true},
		"MINIMALIST": {TemplateMinimalist, true},
		"fancy":      {"", false},
		"":           {"", false},
	}
	for in, tc := range cases {
		got, ok := ParseTemplate(in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseTemplate(%q) = (%q, %v), want (%q, %v)", in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSubscriptionActive(t *testing.T) {
	now := time.Now()
	active := Subscription{ExpiresAt: now.Add(time.Hour)}
	if !active.Active(now) {
		t.Error("subscription expiring in the future should be active")
	}
	expired := Subscription{ExpiresAt: now.Add(-time.Hour)}
	if expired.Active(now) {
		t.Error("subscription expired in the past should be inactive")
	}
	boundary := Subscription{ExpiresAt: now}
	if boundary.Active(now) {
		t.Error("subscription expiring exactly now should be inactive")
	}
}

func TestResumeComplete(t *testing.T) {
	r := Resume{
		Name:       "a",
		Contact:    "b",
		Education:  "c",
		Experience: "d",
		Skills:     "e",
		Summary:    "f",
	}
	if !r.Complete() {
		t.Error("fully filled resume should be complete")
	}
	r.Summary = ""
	if r.Complete() {
		t.Error("resume with a missing section should be incomplete")
	}
}
