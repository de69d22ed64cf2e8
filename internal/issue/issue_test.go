// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestValues(t *testing.T) {
	all := Values()
	if len(all) != int(ScriptFailedId) {
		t.Fatalf("Values() returned %d issues, want %d", len(all), ScriptFailedId)
	}
	for i, iss := range all {
		if iss.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), i+1)
		}
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no markdown", iss.Id())
		}
	}
}

func TestGet(t *testing.T) {
	if Get(InvalidModuleId) == nil {
		t.Fatal("Get(InvalidModuleId) returned nil")
	}
	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })

	var got string
	render = func(in, _ string) (string, error) {
		got = in
		return in, nil
	}

	if _, err := Get(MissingCredentialsId).Render("dark"); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(got, "## See also") || !strings.Contains(got, "application-commands") {
		t.Errorf("rendered markdown lacks doc links:\n%s", got)
	}

	if _, err := Get(CommandNotFoundId).Render("dark"); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(got, "See also") {
		t.Error("issues without links must not render a See also section")
	}

	render = func(string, string) (string, error) { return "", errors.New("bad style") }
	if _, err := Get(CommandNotFoundId).Render("nope"); err == nil {
		t.Error("Render() should surface renderer errors")
	}
}

func TestAllIssuesRender(t *testing.T) {
	for _, iss := range Values() {
		out, err := iss.Render("notty")
		if err != nil {
			t.Errorf("issue %d: Render() error: %v", iss.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", iss.Id())
		}
	}
}
