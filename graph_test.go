package physics2d

import "testing"

func TestConstraintGraphAssignsIndependentContactsToSameColor(t *testing.T) {
	g := NewConstraintGraph()
	g.AddContact(ContactSim{BodyIndexA: 1, BodyIndexB: 2})
	g.AddContact(ContactSim{BodyIndexA: 3, BodyIndexB: 4})

	if len(g.Colors[0].Contacts) != 2 {
		t.Fatalf("expected both independent contacts in color 0, got %d", len(g.Colors[0].Contacts))
	}
}

func TestConstraintGraphSeparatesSharedBodyContacts(t *testing.T) {
	g := NewConstraintGraph()
	g.AddContact(ContactSim{BodyIndexA: 1, BodyIndexB: 2})
	g.AddContact(ContactSim{BodyIndexA: 2, BodyIndexB: 3})

	if len(g.Colors[0].Contacts) != 1 || len(g.Colors[1].Contacts) != 1 {
		t.Fatalf("expected contacts split across two colors, color0=%d color1=%d",
			len(g.Colors[0].Contacts), len(g.Colors[1].Contacts))
	}
}

func TestConstraintGraphOverflowsWhenColorsExhausted(t *testing.T) {
	g := NewConstraintGraph()
	// Body 0 touches every other body, forcing GraphColorCount+1 contacts
	// sharing body 0 into the overflow bucket after colors run out.
	for i := 1; i <= GraphColorCount+1; i++ {
		g.AddContact(ContactSim{BodyIndexA: 0, BodyIndexB: uint32(i)})
	}
	if len(g.Overflow.Contacts) != 1 {
		t.Fatalf("expected exactly one contact to overflow, got %d", len(g.Overflow.Contacts))
	}
}

func TestConstraintGraphClearResetsColors(t *testing.T) {
	g := NewConstraintGraph()
	g.AddContact(ContactSim{BodyIndexA: 1, BodyIndexB: 2})
	g.Clear()
	if g.ActiveColorCount() != 0 {
		t.Fatalf("expected no active colors after Clear, got %d", g.ActiveColorCount())
	}
	// body indices must be reusable after Clear
	g.AddContact(ContactSim{BodyIndexA: 1, BodyIndexB: 2})
	if len(g.Colors[0].Contacts) != 1 {
		t.Fatalf("expected color 0 reusable after Clear")
	}
}
