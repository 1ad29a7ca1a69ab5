package utils_test

import (
	"testing"

	"stridercup/src-server/utils"
)

func TestAccordionSingleExpansion(t *testing.T) {
	var accordion utils.Accordion

	if accordion.Open() != "" {
		t.Error("fresh accordion should be fully collapsed")
	}

	accordion.Toggle("schedule")
	if !accordion.IsOpen("schedule") {
		t.Error("schedule should be open after toggle")
	}

	// opening another section collapses the first
	accordion.Toggle("rules")
	if accordion.IsOpen("schedule") {
		t.Error("schedule should have collapsed")
	}
	if !accordion.IsOpen("rules") {
		t.Error("rules should be the only open section")
	}

	// toggling the open section collapses everything
	accordion.Toggle("rules")
	if accordion.Open() != "" {
		t.Error("toggling the open section should collapse it")
	}
	if accordion.IsOpen("") {
		t.Error("blank id must never report open")
	}
}
