package event

import (
	"testing"
	"time"
)

func TestParseArmorHit(t *testing.T) {
	now := time.Now()
	records, errs := Parse("armor hit 2 1;", now)
	if len(errs) != 0 {
		t.Fatalf("unexpected errs: %v", errs)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	hit, ok := records[0].(ArmorHit)
	if !ok {
		t.Fatalf("expected ArmorHit, got %T", records[0])
	}
	if hit.Index != 2 || hit.Kind != 1 {
		t.Fatalf("unexpected ArmorHit: %+v", hit)
	}
	if hit.ReceivedAt().Sub(now) > 10*time.Millisecond {
		t.Fatalf("timestamp drifted too far from receive time")
	}
}

func TestParseApplause(t *testing.T) {
	records, errs := Parse("sound applause 5", time.Now())
	if len(errs) != 0 {
		t.Fatalf("unexpected errs: %v", errs)
	}
	app := records[0].(Applause)
	if app.Count != 5 {
		t.Fatalf("unexpected Applause: %+v", app)
	}
}

func TestParseUnknownKindLogsOnceMarker(t *testing.T) {
	_, errs := Parse("armor wiggle 1 2", time.Now())
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	me, ok := errs[0].(*MalformedError)
	if !ok || !me.Unknown {
		t.Fatalf("expected Unknown MalformedError, got %#v", errs[0])
	}
}

func TestParseMalformedDoesNotPanic(t *testing.T) {
	records, errs := Parse("garbage;armor hit 1 1", time.Now())
	if len(records) != 1 {
		t.Fatalf("expected 1 valid record, got %d", len(records))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 malformed error, got %d", len(errs))
	}
}
