package store

import (
	"testing"
)

func TestDocValidate(t *testing.T) {
	if err := (Doc{Text: "  "}).Validate(); err == nil {
		t.Error("blank text should be rejected")
	}
	if err := (Doc{Text: "the cat sat"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDocField(t *testing.T) {
	var d Doc
	if d.Field("year") != "" {
		t.Error("nil fields should read as empty")
	}
	d.Fields = map[string]string{"year": "1859"}
	if d.Field("year") != "1859" {
		t.Errorf("Field(year) = %q", d.Field("year"))
	}
}

func TestCopyDocIsDeep(t *testing.T) {
	d := Doc{ID: "1", Fields: map[string]string{"year": "1859"}}
	c := CopyDoc(d)
	c.Fields["year"] = "1871"
	if d.Fields["year"] != "1859" {
		t.Error("CopyDoc should not share the fields map")
	}
}

func TestIDSourceMonotonic(t *testing.T) {
	ids := NewIDSource()
	prev := ids.Next()
	for i := 0; i < 100; i++ {
		next := ids.Next()
		if next <= prev {
			t.Fatalf("IDs not increasing: %s then %s", prev, next)
		}
		if len(next) != 26 {
			t.Fatalf("expected 26-char ULID, got %q", next)
		}
		prev = next
	}
}
